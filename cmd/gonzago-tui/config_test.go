package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gonzago/gonzago/internal/chatbot"
	"github.com/spf13/cobra"
)

// isolateEnv clears every GONZAGO_* variable and points the user config dir
// at an empty temp directory.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GONZAGO_CONFIG", "GONZAGO_BASE_URL", "GONZAGO_TIMEOUT", "GONZAGO_LOG_FILE",
		"GONZAGO_LOG_LEVEL", "GONZAGO_PLAIN", "GONZAGO_ALT_SCREEN", "GONZAGO_MARKDOWN",
		"GONZAGO_TRANSCRIPT_OUT",
	} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
}

func parseTestFlags(t *testing.T, args ...string) (*cobra.Command, flagValues) {
	t.Helper()
	var fv flagValues
	cmd := &cobra.Command{Use: "gonzago"}
	bindFlags(cmd, &fv)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("expected flags to parse, got %v", err)
	}
	return cmd, fv
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestResolveConfigDefaults(t *testing.T) {
	isolateEnv(t)
	cmd, fv := parseTestFlags(t)
	cfg, err := resolveConfig(cmd, fv)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.baseURL != chatbot.DefaultBaseURL {
		t.Fatalf("expected default base url, got %q", cfg.baseURL)
	}
	if cfg.timeout != chatbot.DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", cfg.timeout)
	}
	if !cfg.altScreen || !cfg.markdown || cfg.plain {
		t.Fatalf("unexpected default toggles: %+v", cfg)
	}
}

func TestResolveConfigPrecedence(t *testing.T) {
	isolateEnv(t)
	path := writeConfigFile(t, `
base_url: http://file.example:8000/
timeout: 45s
log_level: debug
markdown: false
transcript_out: session.md
`)
	t.Setenv("GONZAGO_CONFIG", path)
	t.Setenv("GONZAGO_TIMEOUT", "30")
	cmd, fv := parseTestFlags(t, "--base-url", "http://flag.example:9000")

	cfg, err := resolveConfig(cmd, fv)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.baseURL != "http://flag.example:9000" {
		t.Fatalf("expected flag to win for base url, got %q", cfg.baseURL)
	}
	if cfg.timeout != 30*time.Second {
		t.Fatalf("expected env to win for timeout, got %s", cfg.timeout)
	}
	if cfg.logLevel != "debug" || cfg.markdown || cfg.transcriptOut != "session.md" {
		t.Fatalf("expected file values to apply, got %+v", cfg)
	}
}

func TestResolveConfigExplicitMissingFile(t *testing.T) {
	isolateEnv(t)
	cmd, fv := parseTestFlags(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := resolveConfig(cmd, fv); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestResolveConfigBadFileTimeout(t *testing.T) {
	isolateEnv(t)
	path := writeConfigFile(t, "timeout: soon\n")
	cmd, fv := parseTestFlags(t, "--config", path)
	if _, err := resolveConfig(cmd, fv); err == nil {
		t.Fatalf("expected error for invalid timeout")
	}
}

func TestNormalizeConfigClamps(t *testing.T) {
	cfg := defaultConfig()
	cfg.baseURL = "  "
	cfg.timeout = -time.Second
	cfg.logLevel = " WARN "
	got := normalizeConfig(cfg)
	if got.baseURL != chatbot.DefaultBaseURL {
		t.Fatalf("expected blank base url to fall back, got %q", got.baseURL)
	}
	if got.timeout != 0 {
		t.Fatalf("expected negative timeout to clamp to 0, got %s", got.timeout)
	}
	if got.logLevel != "warn" {
		t.Fatalf("expected lowercased level, got %q", got.logLevel)
	}

	cfg.timeout = time.Hour
	if got := normalizeConfig(cfg); got.timeout != maxRequestTimeout {
		t.Fatalf("expected timeout clamp to %s, got %s", maxRequestTimeout, got.timeout)
	}
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"90":   90 * time.Second,
		"2m":   2 * time.Minute,
		" 0 ":  0,
		"1m5s": 65 * time.Second,
	}
	for in, want := range cases {
		got, err := parseDuration(in)
		if err != nil {
			t.Fatalf("parseDuration(%q): expected no error, got %v", in, err)
		}
		if got != want {
			t.Fatalf("parseDuration(%q): expected %s, got %s", in, want, got)
		}
	}
	if _, err := parseDuration("later"); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("GONZAGO_TEST_STR", "  value ")
	t.Setenv("GONZAGO_TEST_BOOL", "off")
	t.Setenv("GONZAGO_TEST_BAD_BOOL", "maybe")
	t.Setenv("GONZAGO_TEST_DUR", "bogus")

	if got := envOr("GONZAGO_TEST_STR", "x"); got != "value" {
		t.Fatalf("expected trimmed env value, got %q", got)
	}
	if got := envOr("GONZAGO_TEST_UNSET", "x"); got != "x" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if envOrBool("GONZAGO_TEST_BOOL", true) {
		t.Fatalf("expected off to parse as false")
	}
	if !envOrBool("GONZAGO_TEST_BAD_BOOL", true) {
		t.Fatalf("expected unknown bool to keep fallback")
	}
	if got := envOrDuration("GONZAGO_TEST_DUR", time.Second); got != time.Second {
		t.Fatalf("expected invalid duration to keep fallback, got %s", got)
	}
}
