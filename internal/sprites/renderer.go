package sprites

import (
	"context"
	"fmt"
	"strings"
)

// ImageClient is the image generation surface the renderer draws with.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt, size string) (string, error)
}

// Renderer derives 2D sprite renders from a generation prompt, one image per
// requested angle.
type Renderer struct {
	images ImageClient
	size   string
}

// NewRenderer constructs a sprite renderer on top of an image client.
func NewRenderer(images ImageClient, size string) *Renderer {
	return &Renderer{images: images, size: strings.TrimSpace(size)}
}

// RenderSprites renders one sprite per angle and returns URLs parallel to the
// input angles. The first failed angle aborts the remainder: sprite sets are
// only useful complete.
func (r *Renderer) RenderSprites(ctx context.Context, prompt string, angles []string) ([]string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("sprite render: prompt required")
	}
	urls := make([]string, 0, len(angles))
	for _, angle := range angles {
		url, err := r.images.GenerateImage(ctx, spritePrompt(prompt, angle), r.size)
		if err != nil {
			return nil, fmt.Errorf("sprite render %s view: %w", angle, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func spritePrompt(prompt, angle string) string {
	return fmt.Sprintf("2D game sprite, %s view, transparent background, crisp pixel-clean edges: %s", angle, prompt)
}
