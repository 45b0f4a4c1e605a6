// Package preflight probes the local environment and provider endpoints so
// the daemon can surface readiness problems before accepting work.
package preflight
