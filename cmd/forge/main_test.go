package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"assetforge/internal/api"
	"assetforge/internal/daemon"
	"assetforge/internal/logging"
	"assetforge/internal/testsupport"
)

type cliTestEnv struct {
	daemon  *daemon.Daemon
	address string
	// configPath points at a nonexistent file so command config loading
	// falls back to defaults.
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-openai-key")
	t.Setenv("MESHY_API_KEY", "test-meshy-key")

	mux := http.NewServeMux()
	var stub *httptest.Server
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"a finely detailed bronze sword"}}]}`))
	})
	mux.HandleFunc("/images/generations", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":[{"url":"%s/concept.png"}]}`, stub.URL)
	})
	mux.HandleFunc("/openapi/v1/image-to-3d", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"task-cli"}`))
	})
	mux.HandleFunc("/openapi/v1/image-to-3d/task-cli", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id":"task-cli","status":"SUCCEEDED","progress":100,"model_urls":{"glb":"%s/models/asset.glb"}}`, stub.URL)
	})
	mux.HandleFunc("/models/asset.glb", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("glb bytes"))
	})
	stub = httptest.NewServer(mux)
	t.Cleanup(stub.Close)

	cfg := testsupport.NewConfig(t)
	cfg.OpenAI.BaseURL = stub.URL
	cfg.Meshy.BaseURL = stub.URL
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	d, err := daemon.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}

	addr := d.APIAddress()
	if addr == "" {
		t.Fatal("daemon reported no api address")
	}

	return &cliTestEnv{
		daemon:     d,
		address:    addr,
		configPath: filepath.Join(t.TempDir(), "config.toml"),
	}
}

func runCommand(t *testing.T, env *cliTestEnv, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(append([]string{"--address", env.address, "--config", env.configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	output, err := runCommand(t, env, "status")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Forge Daemon") {
		t.Errorf("missing header:\n%s", output)
	}
	if !strings.Contains(output, "[OK]") {
		t.Errorf("expected running daemon marker:\n%s", output)
	}
}

func TestStatusCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	output, err := runCommand(t, env, "status", "--json")
	if err != nil {
		t.Fatalf("status --json: %v\n%s", err, output)
	}
	var status api.DaemonStatus
	if err := json.Unmarshal([]byte(output), &status); err != nil {
		t.Fatalf("decode output: %v\n%s", err, output)
	}
	if !status.Running {
		t.Errorf("status = %+v", status)
	}
}

func TestPipelinesCommandEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	output, err := runCommand(t, env, "pipelines")
	if err != nil {
		t.Fatalf("pipelines: %v\n%s", err, output)
	}
	if !strings.Contains(output, "No pipelines stored") {
		t.Errorf("output = %q", output)
	}
}

func TestGenerateAndTrackPipeline(t *testing.T) {
	env := setupCLITestEnv(t)

	output, err := runCommand(t, env, "generate",
		"-d", "a bronze sword",
		"--asset-id", "bronze-sword",
		"-n", "bronze sword",
		"-t", "weapon",
		"--subtype", "sword",
		"--json",
	)
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, output)
	}
	var resp api.GenerateResponse
	if err := json.Unmarshal([]byte(output), &resp); err != nil {
		t.Fatalf("decode output: %v\n%s", err, output)
	}
	if resp.PipelineID == "" {
		t.Fatalf("response = %+v", resp)
	}

	deadline := time.Now().Add(10 * time.Second)
	for {
		run, err := env.daemon.Service().Status(resp.PipelineID)
		if err != nil {
			t.Fatalf("pipeline status: %v", err)
		}
		if run.Status.IsTerminal() {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("pipeline did not finish: %+v", run)
		}
		time.Sleep(10 * time.Millisecond)
	}

	output, err = runCommand(t, env, "status", resp.PipelineID)
	if err != nil {
		t.Fatalf("status <id>: %v\n%s", err, output)
	}
	if !strings.Contains(output, "image3D") || !strings.Contains(output, "completed") {
		t.Errorf("output = %s", output)
	}
}

func TestStatusCommandUnknownPipeline(t *testing.T) {
	env := setupCLITestEnv(t)

	output, err := runCommand(t, env, "status", "nonexistent")
	if err == nil {
		t.Fatalf("expected error, got:\n%s", output)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("err = %v", err)
	}
}

func TestAssetsCommandEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	output, err := runCommand(t, env, "assets")
	if err != nil {
		t.Fatalf("assets: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Catalog is empty") {
		t.Errorf("output = %q", output)
	}
}

func TestSoundCommandDisabled(t *testing.T) {
	env := setupCLITestEnv(t)

	_, err := runCommand(t, env, "sound", "sword clash", "-o", filepath.Join(t.TempDir(), "clash.mp3"))
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("err = %v, want unavailable from daemon", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	output, err := runCommand(t, env, "config", "init", "--path", path)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, output)
	}
	if !strings.Contains(output, path) {
		t.Errorf("output = %q", output)
	}

	if _, err := runCommand(t, env, "config", "init", "--path", path); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
}
