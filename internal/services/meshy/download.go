package meshy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Download fetches a finished model binary into destDir and returns the local
// path. The filename is derived from the URL path; query strings are ignored.
func (c *Client) Download(ctx context.Context, modelURL, destDir string) (string, error) {
	modelURL = strings.TrimSpace(modelURL)
	if modelURL == "" {
		return "", errors.New("meshy download: model url required")
	}
	if strings.TrimSpace(destDir) == "" {
		return "", errors.New("meshy download: destination directory required")
	}

	parsed, err := url.Parse(modelURL)
	if err != nil {
		return "", fmt.Errorf("meshy download: parse url: %w", err)
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		name = "model.glb"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelURL, nil)
	if err != nil {
		return "", fmt.Errorf("meshy download: request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("meshy download: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("meshy download: http %d", resp.StatusCode)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("meshy download: create destination: %w", err)
	}
	destPath := filepath.Join(destDir, name)
	tmpPath := destPath + ".partial"
	file, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("meshy download: create file: %w", err)
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("meshy download: write file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("meshy download: close file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("meshy download: finalize file: %w", err)
	}
	return destPath, nil
}
