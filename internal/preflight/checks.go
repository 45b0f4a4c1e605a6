package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"assetforge/internal/config"
)

// minStagingBytes is the free space required in the staging directory before
// the daemon will accept generation work.
const minStagingBytes = 1 << 30

// Check is one preflight evaluation result.
type Check struct {
	Name      string
	Available bool
	Optional  bool
	Detail    string
}

// HealthChecker reports whether a provider endpoint is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Providers lists the provider clients to probe. Nil entries are skipped.
type Providers struct {
	OpenAI HealthChecker
}

// Run evaluates local environment and provider readiness. It never returns an
// error: each probe reports its outcome as a Check.
func Run(ctx context.Context, cfg *config.Config, providers Providers) []Check {
	checks := []Check{
		stagingSpace(cfg.Paths.StagingDir),
		configuredKey("openai api key", cfg.OpenAI.APIKey, false),
		configuredKey("meshy api key", cfg.Meshy.APIKey, false),
	}
	if cfg.ElevenLabs.Enabled {
		checks = append(checks, configuredKey("elevenlabs api key", cfg.ElevenLabs.APIKey, true))
	}
	if providers.OpenAI != nil {
		check := Check{Name: "openai endpoint", Available: true}
		if err := providers.OpenAI.HealthCheck(ctx); err != nil {
			check.Available = false
			check.Detail = err.Error()
		}
		checks = append(checks, check)
	}
	return checks
}

// Ready reports whether all required checks passed.
func Ready(checks []Check) bool {
	for _, check := range checks {
		if !check.Optional && !check.Available {
			return false
		}
	}
	return true
}

// stagingSpace verifies the staging directory exists and has enough free space
// for downloaded model binaries.
func stagingSpace(dir string) Check {
	check := Check{Name: "staging space"}
	if strings.TrimSpace(dir) == "" {
		check.Detail = "staging directory not configured"
		return check
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		check.Detail = fmt.Sprintf("create staging dir: %v", err)
		return check
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		check.Detail = fmt.Sprintf("statfs %s: %v", dir, err)
		return check
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minStagingBytes {
		check.Detail = fmt.Sprintf("only %d MiB free in %s", free>>20, dir)
		return check
	}
	check.Available = true
	return check
}

func configuredKey(name, value string, optional bool) Check {
	check := Check{Name: name, Optional: optional}
	if strings.TrimSpace(value) == "" {
		check.Detail = "not configured"
		return check
	}
	check.Available = true
	return check
}
