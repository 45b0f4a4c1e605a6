package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type imageGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

// GenerateImage renders a single image for the prompt and returns a URL the
// downstream 3D conversion can fetch. When the provider returns inline base64
// data instead of a URL, a data URL is synthesized.
func (c *Client) GenerateImage(ctx context.Context, prompt, size string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("openai image: prompt required")
	}
	if c.cfg.APIKey == "" {
		return "", errors.New("openai image: api key required")
	}
	if strings.TrimSpace(size) == "" {
		size = c.cfg.ImageSize
	}
	payload := imageGenerationRequest{
		Model:  c.cfg.ImageModel,
		Prompt: prompt,
		N:      1,
		Size:   size,
	}
	body, err := c.postJSONWithRetry(ctx, "/images/generations", payload, "openai image")
	if err != nil {
		return "", err
	}
	var parsed imageGenerationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("openai image: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai image: api error: %s", strings.TrimSpace(parsed.Error.Message))
	}
	if len(parsed.Data) == 0 {
		return "", errors.New("openai image: empty data")
	}
	entry := parsed.Data[0]
	if url := strings.TrimSpace(entry.URL); url != "" {
		return url, nil
	}
	if b64 := strings.TrimSpace(entry.B64JSON); b64 != "" {
		return "data:image/png;base64," + b64, nil
	}
	return "", errors.New("openai image: response contained neither url nor b64 payload")
}
