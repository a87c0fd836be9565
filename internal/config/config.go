// Package config loads amanalign configuration from defaults, YAML files,
// environment variables and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/amanalign/internal/align"
	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
	"github.com/Aman-CERP/amanalign/internal/scoring"
)

// Config represents the complete amanalign configuration.
type Config struct {
	Version   int             `yaml:"version" json:"version"`
	Search    SearchConfig    `yaml:"search" json:"search"`
	Scoring   ScoringConfig   `yaml:"scoring" json:"scoring"`
	Batch     BatchConfig     `yaml:"batch" json:"batch"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry"`
}

// SearchConfig configures the alignment search.
type SearchConfig struct {
	// Optimizer is the similarity to optimize: "bleu" or "wer".
	Optimizer string `yaml:"optimizer" json:"optimizer"`

	// BeamSize is the number of candidates kept per expansion.
	BeamSize int `yaml:"beam_size" json:"beam_size"`

	// BreadthFirstThreshold is the depth up to which the frontier stays FIFO.
	BreadthFirstThreshold int `yaml:"breadth_first_threshold" json:"breadth_first_threshold"`

	// MaxExpansions is the expansion budget between restarts.
	// 0 derives it as references * ExpansionsPerReference.
	MaxExpansions int `yaml:"max_expansions" json:"max_expansions"`

	ExpansionsPerReference int `yaml:"expansions_per_reference" json:"expansions_per_reference"`

	// Lookahead caps candidate segment lengths. 0 derives it from
	// LookaheadFactor times the reference length.
	Lookahead       int     `yaml:"lookahead" json:"lookahead"`
	LookaheadFactor float64 `yaml:"lookahead_factor" json:"lookahead_factor"`

	PunctuationWeight float64 `yaml:"punctuation_weight" json:"punctuation_weight"`
	ProgressWeight    float64 `yaml:"progress_weight" json:"progress_weight"`
}

// ScoringConfig configures the similarity scorers.
type ScoringConfig struct {
	// CacheSize is the number of memoized segment scores (0 disables caching).
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// BatchConfig configures batch alignment.
type BatchConfig struct {
	// Workers is the number of alignments run in parallel.
	Workers int `yaml:"workers" json:"workers"`
}

// LoggingConfig configures the debug log.
type LoggingConfig struct {
	// Level is the minimum level written to the --debug log file.
	Level string `yaml:"level" json:"level"`
}

// TelemetryConfig configures the run history store.
type TelemetryConfig struct {
	// StatsDB is the SQLite file runs are recorded in. Empty disables recording.
	StatsDB string `yaml:"stats_db" json:"stats_db"`
}

// NewConfig creates a new Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Search: SearchConfig{
			Optimizer:              string(scoring.PolicyBLEU),
			BeamSize:               align.DefaultBeamSize,
			BreadthFirstThreshold:  align.DefaultBreadthFirstThreshold,
			MaxExpansions:          0,
			ExpansionsPerReference: align.DefaultExpansionsPerReference,
			Lookahead:              0,
			LookaheadFactor:        align.DefaultLookaheadFactor,
			PunctuationWeight:      align.DefaultPunctuationWeight,
			ProgressWeight:         align.DefaultProgressWeight,
		},
		Scoring: ScoringConfig{
			CacheSize: scoring.DefaultCacheSize,
		},
		Batch: BatchConfig{
			Workers: runtime.NumCPU(),
		},
		Logging: LoggingConfig{
			Level: "debug",
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/amanalign/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/amanalign/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "amanalign", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "amanalign", "config.yaml")
	}
	return filepath.Join(home, ".config", "amanalign", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// LoadUserConfig loads the user configuration over the defaults.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	path := GetUserConfigPath()
	if !fileExists(path) {
		return nil, nil
	}

	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProjectConfigPath returns the project config file in dir, or "" if none.
// .amanalign.yaml takes precedence over .amanalign.yml.
func ProjectConfigPath(dir string) string {
	for _, name := range []string{".amanalign.yaml", ".amanalign.yml"} {
		if p := filepath.Join(dir, name); fileExists(p) {
			return p
		}
	}
	return ""
}

// Load loads configuration for a run started in dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/amanalign/config.yaml)
//  3. Project config (.amanalign.yaml in dir)
//  4. Environment variables (AMANALIGN_*)
//
// Command-line flags are applied afterwards with ApplySearchFlags.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if path := GetUserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if path := ProjectConfigPath(dir); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	for _, w := range cfg.applyEnvOverrides() {
		slog.Warn("config_env_ignored", amerrors.FormatForLog(w)...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, amerrors.ConfigError("invalid configuration", err).
			WithSuggestion("Run 'amanalign config show' to inspect the merged configuration")
	}
	return cfg, nil
}

// loadYAML decodes a YAML file over the current values, so keys missing
// from the file keep their value.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return amerrors.New(amerrors.ErrCodeConfigNotFound, "failed to read config file "+path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return amerrors.ConfigError("failed to parse config file "+path, err).WithDetail("path", path)
	}
	return nil
}

// envVar describes one AMANALIGN_* override.
type envVar struct {
	name  string
	apply func(c *Config, v string) error
}

var envVars = []envVar{
	{"AMANALIGN_OPTIMIZER", func(c *Config, v string) error {
		p, err := scoring.ParsePolicy(v)
		if err == nil {
			c.Search.Optimizer = string(p)
		}
		return err
	}},
	{"AMANALIGN_BEAM_SIZE", intSetter(func(c *Config) *int { return &c.Search.BeamSize })},
	{"AMANALIGN_BREADTH_FIRST_THRESHOLD", intSetter(func(c *Config) *int { return &c.Search.BreadthFirstThreshold })},
	{"AMANALIGN_MAX_EXPANSIONS", intSetter(func(c *Config) *int { return &c.Search.MaxExpansions })},
	{"AMANALIGN_EXPANSIONS_PER_REFERENCE", intSetter(func(c *Config) *int { return &c.Search.ExpansionsPerReference })},
	{"AMANALIGN_LOOKAHEAD", intSetter(func(c *Config) *int { return &c.Search.Lookahead })},
	{"AMANALIGN_LOOKAHEAD_FACTOR", floatSetter(func(c *Config) *float64 { return &c.Search.LookaheadFactor })},
	{"AMANALIGN_PUNCTUATION_WEIGHT", floatSetter(func(c *Config) *float64 { return &c.Search.PunctuationWeight })},
	{"AMANALIGN_PROGRESS_WEIGHT", floatSetter(func(c *Config) *float64 { return &c.Search.ProgressWeight })},
	{"AMANALIGN_CACHE_SIZE", intSetter(func(c *Config) *int { return &c.Scoring.CacheSize })},
	{"AMANALIGN_WORKERS", intSetter(func(c *Config) *int { return &c.Batch.Workers })},
	{"AMANALIGN_LOG_LEVEL", func(c *Config, v string) error {
		c.Logging.Level = strings.ToLower(v)
		return nil
	}},
	{"AMANALIGN_STATS_DB", func(c *Config, v string) error {
		c.Telemetry.StatsDB = v
		return nil
	}},
}

// applyEnvOverrides applies AMANALIGN_* environment variables. Values that
// do not parse or are negative are ignored and returned as warnings.
func (c *Config) applyEnvOverrides() []error {
	var warnings []error
	for _, ev := range envVars {
		v := strings.TrimSpace(os.Getenv(ev.name))
		if v == "" {
			continue
		}
		if err := ev.apply(c, v); err != nil {
			warnings = append(warnings, valueError(ev.name, v, err))
		}
	}
	return warnings
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := parseInt(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func floatSetter(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := parseFloat64(v)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}

func parseFloat64(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f != f {
		return 0, fmt.Errorf("not a number")
	}
	if f < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return f, nil
}

func valueError(name, value string, cause error) *amerrors.AlignError {
	return amerrors.New(amerrors.ErrCodeConfigValue,
		fmt.Sprintf("invalid value %q for %s: %v", value, name, cause), cause).
		WithDetail("name", name).
		WithSuggestion("The configured value is used instead")
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if _, err := scoring.ParsePolicy(c.Search.Optimizer); err != nil {
		return fmt.Errorf("search.optimizer: %w", err)
	}
	if c.Search.ExpansionsPerReference < 1 {
		return fmt.Errorf("search.expansions_per_reference must be at least 1, got %d", c.Search.ExpansionsPerReference)
	}
	if c.Search.LookaheadFactor <= 0 {
		return fmt.Errorf("search.lookahead_factor must be positive, got %v", c.Search.LookaheadFactor)
	}
	if err := c.AlignOptions().Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if c.Scoring.CacheSize < 0 {
		return fmt.Errorf("scoring.cache_size must be non-negative, got %d", c.Scoring.CacheSize)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must be non-negative, got %d", c.Batch.Workers)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}
	return nil
}

// Policy returns the configured scoring policy.
func (c *Config) Policy() scoring.Policy {
	p, err := scoring.ParsePolicy(c.Search.Optimizer)
	if err != nil {
		return scoring.PolicyBLEU
	}
	return p
}

// AlignOptions converts the search section into align.Options.
func (c *Config) AlignOptions() align.Options {
	return align.Options{
		BeamSize:               c.Search.BeamSize,
		BreadthFirstThreshold:  c.Search.BreadthFirstThreshold,
		MaxExpansions:          c.Search.MaxExpansions,
		ExpansionsPerReference: c.Search.ExpansionsPerReference,
		Lookahead:              c.Search.Lookahead,
		LookaheadFactor:        c.Search.LookaheadFactor,
		PunctuationWeight:      c.Search.PunctuationWeight,
		ProgressWeight:         c.Search.ProgressWeight,
	}
}

// Workers returns the batch parallelism, NumCPU when unset.
func (c *Config) Workers() int {
	if c.Batch.Workers > 0 {
		return c.Batch.Workers
	}
	return runtime.NumCPU()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MergeNewDefaults fills search keys that an older config file lacks.
// Returns the names of the keys that were added.
func (c *Config) MergeNewDefaults() []string {
	defaults := NewConfig()
	var added []string

	if c.Search.ExpansionsPerReference == 0 {
		c.Search.ExpansionsPerReference = defaults.Search.ExpansionsPerReference
		added = append(added, "search.expansions_per_reference")
	}
	if c.Search.LookaheadFactor == 0 {
		c.Search.LookaheadFactor = defaults.Search.LookaheadFactor
		added = append(added, "search.lookahead_factor")
	}
	if c.Search.ProgressWeight == 0 {
		c.Search.ProgressWeight = defaults.Search.ProgressWeight
		added = append(added, "search.progress_weight")
	}
	if c.Scoring.CacheSize == 0 {
		c.Scoring.CacheSize = defaults.Scoring.CacheSize
		added = append(added, "scoring.cache_size")
	}
	return added
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
