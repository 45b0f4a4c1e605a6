package sprites

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type stubImages struct {
	prompts []string
	failOn  int
	err     error
}

func (s *stubImages) GenerateImage(ctx context.Context, prompt, size string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil && len(s.prompts) == s.failOn {
		return "", s.err
	}
	return fmt.Sprintf("https://images.test/sprite-%d.png", len(s.prompts)), nil
}

func TestRenderSprites(t *testing.T) {
	images := &stubImages{}
	renderer := NewRenderer(images, "1024x1024")

	urls, err := renderer.RenderSprites(context.Background(), "a bronze sword", []string{"front", "side", "isometric"})
	if err != nil {
		t.Fatalf("RenderSprites: %v", err)
	}
	if len(urls) != 3 {
		t.Fatalf("got %d urls, want one per angle", len(urls))
	}
	for i, angle := range []string{"front", "side", "isometric"} {
		if !strings.Contains(images.prompts[i], angle+" view") {
			t.Errorf("prompt %d = %q, want %s view", i, images.prompts[i], angle)
		}
		if !strings.Contains(images.prompts[i], "a bronze sword") {
			t.Errorf("prompt %d missing base prompt: %q", i, images.prompts[i])
		}
	}
}

func TestRenderSpritesFirstFailureAborts(t *testing.T) {
	images := &stubImages{failOn: 2, err: errors.New("rate limited")}
	renderer := NewRenderer(images, "")

	_, err := renderer.RenderSprites(context.Background(), "a bronze sword", []string{"front", "side", "back"})
	if err == nil {
		t.Fatal("expected error from second angle")
	}
	if !strings.Contains(err.Error(), "side view") {
		t.Errorf("err = %v, want failed angle named", err)
	}
	if len(images.prompts) != 2 {
		t.Errorf("made %d calls, want abort after the failed angle", len(images.prompts))
	}
}

func TestRenderSpritesRequiresPrompt(t *testing.T) {
	renderer := NewRenderer(&stubImages{}, "")
	if _, err := renderer.RenderSprites(context.Background(), "  ", []string{"front"}); err == nil {
		t.Fatal("expected error for blank prompt")
	}
}
