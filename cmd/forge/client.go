package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall"
	"time"

	"assetforge/internal/api"
	"assetforge/internal/pipeline"
)

// daemonClient talks to the forge daemon's HTTP API.
type daemonClient struct {
	baseURL    string
	httpClient *http.Client
}

func newDaemonClient(address string) *daemonClient {
	address = strings.TrimSpace(address)
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	return &daemonClient{
		baseURL:    strings.TrimRight(address, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *daemonClient) Status(ctx context.Context) (api.DaemonStatus, error) {
	var status api.DaemonStatus
	err := c.getJSON(ctx, "/api/status", &status)
	return status, err
}

func (c *daemonClient) Generate(ctx context.Context, cfg pipeline.Config) (api.GenerateResponse, error) {
	var resp api.GenerateResponse
	err := c.postJSON(ctx, "/api/generate", cfg, &resp)
	return resp, err
}

func (c *daemonClient) Pipeline(ctx context.Context, id string) (api.PipelineView, error) {
	var view api.PipelineView
	err := c.getJSON(ctx, "/api/generate/"+id, &view)
	return view, err
}

func (c *daemonClient) Pipelines(ctx context.Context) (api.PipelineListResponse, error) {
	var resp api.PipelineListResponse
	err := c.getJSON(ctx, "/api/pipelines", &resp)
	return resp, err
}

func (c *daemonClient) Assets(ctx context.Context) (api.AssetListResponse, error) {
	var resp api.AssetListResponse
	err := c.getJSON(ctx, "/api/assets", &resp)
	return resp, err
}

func (c *daemonClient) Asset(ctx context.Context, assetID string) (api.AssetResponse, error) {
	var resp api.AssetResponse
	err := c.getJSON(ctx, "/api/assets/"+assetID, &resp)
	return resp, err
}

// SoundEffect returns the raw audio bytes and their content type.
func (c *daemonClient) SoundEffect(ctx context.Context, req api.SoundEffectRequest) ([]byte, string, error) {
	encoded, err := json.Marshal(req)
	if err != nil {
		return nil, "", fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/soundeffects", bytes.NewReader(encoded))
	if err != nil {
		return nil, "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", wrapConnError(err, c.baseURL)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, "", apiErrorFromBody(resp.StatusCode, body)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (c *daemonClient) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, dst)
}

func (c *daemonClient) postJSON(ctx context.Context, path string, payload, dst any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dst)
}

func (c *daemonClient) do(req *http.Request, dst any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapConnError(err, c.baseURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return apiErrorFromBody(resp.StatusCode, body)
	}
	if dst == nil {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiErrorFromBody(status int, body []byte) error {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && strings.TrimSpace(parsed.Error) != "" {
		return fmt.Errorf("daemon returned %d: %s", status, parsed.Error)
	}
	return fmt.Errorf("daemon returned %d", status)
}

func wrapConnError(err error, baseURL string) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon at %s: connection refused; is forged running?", baseURL)
	}
	return fmt.Errorf("connect to daemon: %w", err)
}
