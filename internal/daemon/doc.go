// Package daemon wires the generation orchestrator, asset catalog, provider
// clients, HTTP API, and retention sweeper into a single-instance background
// service.
package daemon
