// Package services defines shared helpers for the external provider clients:
// the error taxonomy used to classify failures (validation, configuration,
// provider, timeout, transient) and context annotations that thread pipeline
// identifiers, stage names, and request correlation ids through client calls
// for structured logging.
//
// Concrete provider clients live in subpackages (openai, meshy, elevenlabs).
package services
