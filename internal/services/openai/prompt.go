package openai

import "strings"

const enhanceBasePrompt = `You rewrite short game-asset descriptions into detailed image generation prompts.
Describe a single centered subject on a plain neutral background, suitable for
conversion into a 3D model: clear silhouette, even studio lighting, no scene
clutter, no text. Reply with the rewritten prompt only.`

func enhanceSystemPrompt(style string) string {
	style = strings.TrimSpace(style)
	if style == "" {
		return enhanceBasePrompt
	}
	return enhanceBasePrompt + "\nTarget art style: " + style + "."
}
