package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"assetforge/internal/api"
	"assetforge/internal/logging"
	"assetforge/internal/testsupport"
)

// newProviderStub serves just enough of the OpenAI and Meshy APIs for a full
// generation run to complete.
func newProviderStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"a finely detailed bronze sword"}}]}`))
	})
	mux.HandleFunc("/images/generations", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":[{"url":"%s/concept.png"}]}`, server.URL)
	})
	mux.HandleFunc("/openapi/v1/image-to-3d", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"task-e2e"}`))
	})
	mux.HandleFunc("/openapi/v1/image-to-3d/task-e2e", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id":"task-e2e","status":"SUCCEEDED","progress":100,"model_urls":{"glb":"%s/models/asset.glb"}}`, server.URL)
	})
	mux.HandleFunc("/models/asset.glb", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("glb bytes"))
	})
	mux.HandleFunc("/v1/sound-generation", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3 bytes"))
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func startTestServer(t *testing.T, opts ...testsupport.ConfigOption) (*Daemon, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	stub := newProviderStub(t)
	cfg.OpenAI.BaseURL = stub.URL
	cfg.Meshy.BaseURL = stub.URL
	cfg.ElevenLabs.BaseURL = stub.URL
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	d, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return d, "http://" + d.apiServer.addr()
}

func getJSON(t *testing.T, url string, dst any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, payload any, dst any) int {
	t.Helper()
	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestAPIStatus(t *testing.T) {
	_, base := startTestServer(t)

	var status api.DaemonStatus
	if code := getJSON(t, base+"/api/status", &status); code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if !status.Running || status.PID <= 0 {
		t.Errorf("status = %+v", status)
	}
}

func TestAPIGenerateEndToEnd(t *testing.T) {
	_, base := startTestServer(t)

	var resp api.GenerateResponse
	code := postJSON(t, base+"/api/generate", map[string]string{
		"description": "a bronze sword",
		"assetId":     "bronze-sword",
		"name":        "bronze sword",
		"type":        "weapon",
		"subtype":     "sword",
	}, &resp)
	if code != http.StatusAccepted {
		t.Fatalf("status code = %d", code)
	}
	if resp.PipelineID == "" {
		t.Fatal("no pipeline id returned")
	}

	deadline := time.Now().Add(10 * time.Second)
	var view api.PipelineView
	for {
		if code := getJSON(t, base+"/api/generate/"+resp.PipelineID, &view); code != http.StatusOK {
			t.Fatalf("status code = %d", code)
		}
		if view.Status == "completed" || view.Status == "failed" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("pipeline did not finish: %+v", view)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if view.Status != "completed" {
		t.Fatalf("run = %+v", view)
	}
	if view.Progress != 100 {
		t.Errorf("progress = %d", view.Progress)
	}
	if view.Results.Image3D == nil || !strings.HasSuffix(view.Results.Image3D.ModelURL, "/models/asset.glb") {
		t.Errorf("model result = %+v", view.Results.Image3D)
	}

	var pipelines api.PipelineListResponse
	if code := getJSON(t, base+"/api/pipelines", &pipelines); code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if len(pipelines.Pipelines) != 1 {
		t.Errorf("pipelines = %+v", pipelines)
	}

	// The catalog record lands just after the run turns terminal.
	var assets api.AssetListResponse
	for {
		if code := getJSON(t, base+"/api/assets", &assets); code != http.StatusOK {
			t.Fatalf("status code = %d", code)
		}
		if len(assets.Assets) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("asset never recorded: %+v", assets)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if assets.Assets[0].AssetID != "bronze-sword" {
		t.Errorf("assets = %+v", assets)
	}

	var asset api.AssetResponse
	if code := getJSON(t, base+"/api/assets/bronze-sword", &asset); code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if asset.Asset.DisplayName != "Bronze Sword" {
		t.Errorf("asset = %+v", asset.Asset)
	}
}

func TestAPIGenerateValidation(t *testing.T) {
	_, base := startTestServer(t)

	var body map[string]string
	code := postJSON(t, base+"/api/generate", map[string]string{"description": "sword"}, &body)
	if code != http.StatusBadRequest {
		t.Fatalf("status code = %d", code)
	}
	if !strings.Contains(body["error"], "required") {
		t.Errorf("error = %q", body["error"])
	}
}

func TestAPIGenerateMalformedBody(t *testing.T) {
	_, base := startTestServer(t)

	resp, err := http.Post(base+"/api/generate", "application/json", strings.NewReader("{broken"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status code = %d", resp.StatusCode)
	}
}

func TestAPIUnknownPipeline(t *testing.T) {
	_, base := startTestServer(t)

	if code := getJSON(t, base+"/api/generate/nonexistent", nil); code != http.StatusNotFound {
		t.Errorf("status code = %d", code)
	}
}

func TestAPIUnknownAsset(t *testing.T) {
	_, base := startTestServer(t)

	if code := getJSON(t, base+"/api/assets/nonexistent", nil); code != http.StatusNotFound {
		t.Errorf("status code = %d", code)
	}
}

func TestAPIMethodNotAllowed(t *testing.T) {
	_, base := startTestServer(t)

	resp, err := http.Post(base+"/api/status", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status code = %d", resp.StatusCode)
	}
}

func TestAPISoundEffectsDisabled(t *testing.T) {
	_, base := startTestServer(t)

	var body map[string]string
	code := postJSON(t, base+"/api/soundeffects", api.SoundEffectRequest{Text: "clash"}, &body)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("status code = %d", code)
	}
	if !strings.Contains(body["error"], "not enabled") {
		t.Errorf("error = %q", body["error"])
	}
}

func TestAPISoundEffectsProxy(t *testing.T) {
	_, base := startTestServer(t, testsupport.WithSoundEffects("test-eleven-key"))

	encoded, _ := json.Marshal(api.SoundEffectRequest{Text: "sword clash", DurationSeconds: 2})
	resp, err := http.Post(base+"/api/soundeffects", "application/json", bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "audio/mpeg" {
		t.Errorf("content type = %q", got)
	}
	audio, _ := io.ReadAll(resp.Body)
	if string(audio) != "mp3 bytes" {
		t.Errorf("audio = %q", audio)
	}
}

func TestAPISoundEffectsRequiresText(t *testing.T) {
	_, base := startTestServer(t, testsupport.WithSoundEffects("test-eleven-key"))

	var body map[string]string
	code := postJSON(t, base+"/api/soundeffects", api.SoundEffectRequest{Text: "  "}, &body)
	if code != http.StatusBadRequest {
		t.Fatalf("status code = %d", code)
	}
}
