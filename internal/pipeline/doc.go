// Package pipeline orchestrates multi-stage asset generation runs.
//
// A run moves through a fixed stage sequence: textInput (completed at
// creation) → promptOptimization → imageGeneration → image3D →
// textureGeneration → rigging → spriteGeneration. Which stages apply is
// derived from the run configuration: stages that can never apply are omitted
// from the record entirely, while applicable-but-disabled stages are recorded
// as skipped. Each stage carries a failure policy — required stages fail the
// whole run, best-effort stages record their failure and let the run finish.
//
// Start returns synchronously after registering the run; stage execution
// proceeds in a detached goroutine, mutating the run record through the
// mutex-guarded in-memory store. Clients observe progress by polling Status,
// which returns deep-copied snapshots. Terminal runs older than the retention
// threshold are removed by CleanupOldPipelines; in-flight runs are never
// removed regardless of age.
//
// Provider calls go through the narrow interfaces in clients.go so tests can
// substitute stubs, and all task polling runs on an injected clock.
package pipeline
