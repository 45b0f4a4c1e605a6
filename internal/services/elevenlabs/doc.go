// Package elevenlabs wraps the ElevenLabs sound-generation endpoint. Sound
// effects are a standalone API feature, not a pipeline stage; the HTTP API
// proxies requests through this client when the integration is enabled.
package elevenlabs
