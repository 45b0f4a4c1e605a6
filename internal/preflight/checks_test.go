package preflight

import (
	"context"
	"errors"
	"testing"

	"assetforge/internal/testsupport"
)

type stubHealth struct {
	err error
}

func (s stubHealth) HealthCheck(ctx context.Context) error {
	return s.err
}

func TestRunReportsReadyEnvironment(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	checks := Run(context.Background(), cfg, Providers{OpenAI: stubHealth{}})
	if !Ready(checks) {
		t.Fatalf("expected ready, got %+v", checks)
	}
}

func TestRunFlagsMissingKeys(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Meshy.APIKey = ""

	checks := Run(context.Background(), cfg, Providers{})
	if Ready(checks) {
		t.Fatal("expected required check failure with missing meshy key")
	}
	var found bool
	for _, check := range checks {
		if check.Name == "meshy api key" {
			found = true
			if check.Available {
				t.Error("meshy api key check should fail")
			}
		}
	}
	if !found {
		t.Error("meshy api key check missing")
	}
}

func TestRunOptionalFailureStillReady(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSoundEffects(""))

	checks := Run(context.Background(), cfg, Providers{})
	if !Ready(checks) {
		t.Fatalf("optional elevenlabs key should not block readiness: %+v", checks)
	}
}

func TestRunReportsEndpointFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	checks := Run(context.Background(), cfg, Providers{OpenAI: stubHealth{err: errors.New("boom")}})
	if Ready(checks) {
		t.Fatal("endpoint failure should block readiness")
	}
}
