// Package api defines the transport representations shared by the daemon's
// HTTP server and the CLI, plus thin service facades that convert internal
// records into those representations.
package api
