// Package openai wraps the OpenAI-compatible chat completion and image
// generation endpoints used by the generation pipeline for prompt enhancement,
// concept image rendering, and sprite derivation.
package openai
