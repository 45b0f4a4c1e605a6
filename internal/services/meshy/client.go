package meshy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://api.meshy.ai"
	defaultHTTPTimeout = 30 * time.Second

	imageTo3DPath = "/openapi/v1/image-to-3d"
	retexturePath = "/openapi/v1/retexture"
	riggingPath   = "/openapi/v1/rigging"
)

// Task statuses reported by the Meshy API.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusSucceeded  = "SUCCEEDED"
	StatusFailed     = "FAILED"
	StatusCanceled   = "CANCELED"
)

// Config captures the runtime settings required to talk to the Meshy API.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// Client wraps the Meshy 3D task API: image-to-3D conversion, retexturing,
// and auto-rigging, all of which are asynchronous submit/poll tasks.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.cfg.BaseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewClient constructs a Meshy API client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// ModelURLs lists the export formats a finished task offers.
type ModelURLs struct {
	GLB  string `json:"glb"`
	FBX  string `json:"fbx"`
	OBJ  string `json:"obj"`
	USDZ string `json:"usdz"`
}

// TaskError carries the provider's failure message.
type TaskError struct {
	Message string `json:"message"`
}

// Task is the polled state of an asynchronous Meshy task.
type Task struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	ModelURLs ModelURLs `json:"model_urls"`
	TaskError TaskError `json:"task_error"`
}

// ModelURL returns the preferred downloadable model URL for a finished task.
func (t Task) ModelURL() string {
	for _, candidate := range []string{t.ModelURLs.GLB, t.ModelURLs.FBX, t.ModelURLs.OBJ, t.ModelURLs.USDZ} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

type createResponse struct {
	Result string `json:"result"`
}

type apiError struct {
	Message string `json:"message"`
}

// CreateImageTo3D submits an image-to-3D conversion task and returns its id.
func (c *Client) CreateImageTo3D(ctx context.Context, imageURL, quality string) (string, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return "", errors.New("meshy image-to-3d: image url required")
	}
	payload := map[string]any{
		"image_url":      imageURL,
		"enable_pbr":     true,
		"should_remesh":  true,
		"should_texture": true,
	}
	if quality = strings.TrimSpace(quality); quality != "" {
		payload["target_polycount"] = polycountForQuality(quality)
	}
	return c.createTask(ctx, imageTo3DPath, payload, "meshy image-to-3d")
}

// CreateRetexture submits a retexture task for an existing model and returns its id.
func (c *Client) CreateRetexture(ctx context.Context, modelURL, stylePrompt string) (string, error) {
	modelURL = strings.TrimSpace(modelURL)
	if modelURL == "" {
		return "", errors.New("meshy retexture: model url required")
	}
	if strings.TrimSpace(stylePrompt) == "" {
		return "", errors.New("meshy retexture: style prompt required")
	}
	payload := map[string]any{
		"model_url":         modelURL,
		"text_style_prompt": strings.TrimSpace(stylePrompt),
		"enable_pbr":        true,
	}
	return c.createTask(ctx, retexturePath, payload, "meshy retexture")
}

// CreateRigging submits an auto-rigging task and returns its id. Height is the
// target character height in meters.
func (c *Client) CreateRigging(ctx context.Context, modelURL string, heightMeters float64) (string, error) {
	modelURL = strings.TrimSpace(modelURL)
	if modelURL == "" {
		return "", errors.New("meshy rigging: model url required")
	}
	payload := map[string]any{
		"model_url": modelURL,
	}
	if heightMeters > 0 {
		payload["height_meters"] = heightMeters
	}
	return c.createTask(ctx, riggingPath, payload, "meshy rigging")
}

// ImageTo3DTask fetches the state of an image-to-3D task.
func (c *Client) ImageTo3DTask(ctx context.Context, taskID string) (Task, error) {
	return c.getTask(ctx, imageTo3DPath, taskID, "meshy image-to-3d")
}

// RetextureTask fetches the state of a retexture task.
func (c *Client) RetextureTask(ctx context.Context, taskID string) (Task, error) {
	return c.getTask(ctx, retexturePath, taskID, "meshy retexture")
}

// RiggingTask fetches the state of a rigging task.
func (c *Client) RiggingTask(ctx context.Context, taskID string) (Task, error) {
	return c.getTask(ctx, riggingPath, taskID, "meshy rigging")
}

func (c *Client) createTask(ctx context.Context, path string, payload map[string]any, op string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("%s: api key required", op)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", op, err)
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, path)
	if err != nil {
		return "", fmt.Errorf("%s: build url: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("%s: request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%s: http %d: %s", op, resp.StatusCode, apiErrorMessage(body))
	}
	var created createResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", op, err)
	}
	if strings.TrimSpace(created.Result) == "" {
		return "", fmt.Errorf("%s: response missing task id", op)
	}
	return created.Result, nil
}

func (c *Client) getTask(ctx context.Context, path, taskID, op string) (Task, error) {
	var empty Task
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return empty, fmt.Errorf("%s: task id required", op)
	}
	if c.cfg.APIKey == "" {
		return empty, fmt.Errorf("%s: api key required", op)
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, path, taskID)
	if err != nil {
		return empty, fmt.Errorf("%s: build url: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return empty, fmt.Errorf("%s: request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return empty, fmt.Errorf("%s: http %d: %s", op, resp.StatusCode, apiErrorMessage(body))
	}
	var task Task
	if err := json.Unmarshal(body, &task); err != nil {
		return empty, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return task, nil
}

func apiErrorMessage(body []byte) string {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err == nil && strings.TrimSpace(parsed.Message) != "" {
		return strings.TrimSpace(parsed.Message)
	}
	return strings.TrimSpace(string(body))
}

func polycountForQuality(quality string) int {
	switch strings.ToLower(quality) {
	case "low":
		return 10000
	case "high":
		return 100000
	default:
		return 30000
	}
}
