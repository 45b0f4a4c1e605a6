package elevenlabs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{APIKey: "test-key"}, WithBaseURL(server.URL))
}

func TestGenerateSound(t *testing.T) {
	var gotPayload SoundRequest
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/sound-generation" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("xi-api-key"); got != "test-key" {
			t.Errorf("xi-api-key = %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotPayload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3 bytes"))
	}))

	audio, contentType, err := client.GenerateSound(context.Background(), SoundRequest{
		Text:            "sword clash",
		DurationSeconds: 2.5,
		PromptInfluence: 0.7,
	})
	if err != nil {
		t.Fatalf("GenerateSound: %v", err)
	}
	if string(audio) != "mp3 bytes" {
		t.Errorf("audio = %q", audio)
	}
	if contentType != "audio/mpeg" {
		t.Errorf("content type = %q", contentType)
	}
	if gotPayload.Text != "sword clash" || gotPayload.DurationSeconds != 2.5 || gotPayload.PromptInfluence != 0.7 {
		t.Errorf("payload = %+v", gotPayload)
	}
}

func TestGenerateSoundDefaultContentType(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.Write([]byte("audio"))
	}))

	_, contentType, err := client.GenerateSound(context.Background(), SoundRequest{Text: "rain"})
	if err != nil {
		t.Fatalf("GenerateSound: %v", err)
	}
	if contentType != "audio/mpeg" {
		t.Errorf("content type = %q, want audio/mpeg fallback", contentType)
	}
}

func TestGenerateSoundRequiresText(t *testing.T) {
	client := NewClient(Config{APIKey: "k"})
	if _, _, err := client.GenerateSound(context.Background(), SoundRequest{Text: "   "}); err == nil {
		t.Fatal("expected error for blank text")
	}
}

func TestGenerateSoundAPIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid api key"}`))
	}))

	_, _, err := client.GenerateSound(context.Background(), SoundRequest{Text: "thunder"})
	if err == nil || !strings.Contains(err.Error(), "http 401") {
		t.Fatalf("err = %v", err)
	}
}
