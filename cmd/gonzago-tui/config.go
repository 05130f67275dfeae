package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gonzago/gonzago/internal/chatbot"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const maxRequestTimeout = 30 * time.Minute

type appConfig struct {
	baseURL       string
	timeout       time.Duration
	logFile       string
	logLevel      string
	plain         bool
	altScreen     bool
	markdown      bool
	transcriptOut string
}

// fileConfig mirrors appConfig in the YAML config file. Booleans are pointers
// so that an absent key keeps the default.
type fileConfig struct {
	BaseURL       string `yaml:"base_url"`
	Timeout       string `yaml:"timeout"`
	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level"`
	Plain         *bool  `yaml:"plain"`
	AltScreen     *bool  `yaml:"alt_screen"`
	Markdown      *bool  `yaml:"markdown"`
	TranscriptOut string `yaml:"transcript_out"`
}

// flagValues receives the command-line flags before they are merged.
type flagValues struct {
	configPath    string
	baseURL       string
	timeout       time.Duration
	logFile       string
	logLevel      string
	plain         bool
	altScreen     bool
	markdown      bool
	transcriptOut string
}

func defaultConfig() appConfig {
	return appConfig{
		baseURL:   chatbot.DefaultBaseURL,
		timeout:   chatbot.DefaultTimeout,
		logLevel:  "info",
		altScreen: true,
		markdown:  true,
	}
}

func bindFlags(cmd *cobra.Command, fv *flagValues) {
	def := defaultConfig()
	f := cmd.Flags()
	f.StringVar(&fv.configPath, "config", "", "YAML config file (default $XDG_CONFIG_HOME/gonzago/config.yaml when present)")
	f.StringVar(&fv.baseURL, "base-url", def.baseURL, "Chatbot service base URL")
	f.DurationVar(&fv.timeout, "timeout", def.timeout, "Per-request timeout (0 disables)")
	f.StringVar(&fv.logFile, "log-file", "", "Write JSON logs to this file")
	f.StringVar(&fv.logLevel, "log-level", def.logLevel, "Log level (trace|debug|info|warn|error)")
	f.BoolVar(&fv.plain, "plain", false, "Line mode instead of the full-screen UI")
	f.BoolVar(&fv.altScreen, "alt-screen", def.altScreen, "Use alternate screen buffer")
	f.BoolVar(&fv.markdown, "markdown", def.markdown, "Render answers as markdown")
	f.StringVar(&fv.transcriptOut, "transcript-out", "", "Write the transcript here on exit (.md, .json, .jsonl, .yaml)")
}

// resolveConfig merges defaults, the config file, GONZAGO_* environment
// variables and explicitly set flags, in increasing order of precedence.
func resolveConfig(cmd *cobra.Command, fv flagValues) (appConfig, error) {
	cfg := defaultConfig()

	path := fv.configPath
	if path == "" {
		path = envOr("GONZAGO_CONFIG", "")
	}
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if path != "" {
		fc, found, err := loadFileConfig(path, explicit)
		if err != nil {
			return appConfig{}, err
		}
		if found {
			if err := cfg.applyFile(fc); err != nil {
				return appConfig{}, errors.Wrapf(err, "config %s", path)
			}
		}
	}

	cfg.applyEnv()

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.baseURL = fv.baseURL
	}
	if flags.Changed("timeout") {
		cfg.timeout = fv.timeout
	}
	if flags.Changed("log-file") {
		cfg.logFile = fv.logFile
	}
	if flags.Changed("log-level") {
		cfg.logLevel = fv.logLevel
	}
	if flags.Changed("plain") {
		cfg.plain = fv.plain
	}
	if flags.Changed("alt-screen") {
		cfg.altScreen = fv.altScreen
	}
	if flags.Changed("markdown") {
		cfg.markdown = fv.markdown
	}
	if flags.Changed("transcript-out") {
		cfg.transcriptOut = fv.transcriptOut
	}
	return normalizeConfig(cfg), nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, "gonzago", "config.yaml")
}

// loadFileConfig reads path. A missing file is only an error when required.
func loadFileConfig(path string, required bool) (fileConfig, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return fileConfig{}, false, nil
		}
		return fileConfig{}, false, errors.Wrap(err, "read config file")
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fileConfig{}, false, errors.Wrapf(err, "decode config file %s", path)
	}
	return fc, true, nil
}

func (c *appConfig) applyFile(fc fileConfig) error {
	if strings.TrimSpace(fc.BaseURL) != "" {
		c.baseURL = fc.BaseURL
	}
	if strings.TrimSpace(fc.Timeout) != "" {
		d, err := parseDuration(fc.Timeout)
		if err != nil {
			return errors.Wrap(err, "timeout")
		}
		c.timeout = d
	}
	if strings.TrimSpace(fc.LogFile) != "" {
		c.logFile = fc.LogFile
	}
	if strings.TrimSpace(fc.LogLevel) != "" {
		c.logLevel = fc.LogLevel
	}
	if fc.Plain != nil {
		c.plain = *fc.Plain
	}
	if fc.AltScreen != nil {
		c.altScreen = *fc.AltScreen
	}
	if fc.Markdown != nil {
		c.markdown = *fc.Markdown
	}
	if strings.TrimSpace(fc.TranscriptOut) != "" {
		c.transcriptOut = fc.TranscriptOut
	}
	return nil
}

func (c *appConfig) applyEnv() {
	c.baseURL = envOr("GONZAGO_BASE_URL", c.baseURL)
	c.timeout = envOrDuration("GONZAGO_TIMEOUT", c.timeout)
	c.logFile = envOr("GONZAGO_LOG_FILE", c.logFile)
	c.logLevel = envOr("GONZAGO_LOG_LEVEL", c.logLevel)
	c.plain = envOrBool("GONZAGO_PLAIN", c.plain)
	c.altScreen = envOrBool("GONZAGO_ALT_SCREEN", c.altScreen)
	c.markdown = envOrBool("GONZAGO_MARKDOWN", c.markdown)
	c.transcriptOut = envOr("GONZAGO_TRANSCRIPT_OUT", c.transcriptOut)
}

func normalizeConfig(c appConfig) appConfig {
	c.baseURL = strings.TrimRight(strings.TrimSpace(c.baseURL), "/")
	if c.baseURL == "" {
		c.baseURL = chatbot.DefaultBaseURL
	}
	if c.timeout < 0 {
		c.timeout = 0
	}
	if c.timeout > maxRequestTimeout {
		c.timeout = maxRequestTimeout
	}
	c.logLevel = strings.ToLower(strings.TrimSpace(c.logLevel))
	if c.logLevel == "" {
		c.logLevel = "info"
	}
	c.logFile = strings.TrimSpace(c.logFile)
	c.transcriptOut = strings.TrimSpace(c.transcriptOut)
	return c
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if value == "" {
		return fallback
	}
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func envOrDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := parseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// parseDuration accepts Go durations ("90s", "2m") and bare seconds ("90").
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Errorf("invalid duration %q", value)
	}
	return d, nil
}
