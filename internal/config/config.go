package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"pr-radar/internal/model"
)

const (
	defaultPollIntervalSeconds = 60
	defaultReviewSLAMinutes    = 480
)

// Filters are the user's view rules. Older config files that predate a field
// decode into the zero value, which is the safe default for every field here
// except the SLA window, fixed up in Load.
type Filters struct {
	HideDrafts       bool     `toml:"hide_drafts"`
	HideApprovedByMe bool     `toml:"hide_approved_by_me"`
	HideNotReady     bool     `toml:"hide_not_ready"`
	RequiredChecks   []string `toml:"required_checks"`
	IgnoredChecks    []string `toml:"ignored_checks"`
	IgnoredRepos     []string `toml:"ignored_repos"`
	ReviewSLAEnabled bool     `toml:"review_sla_enabled"`
	ReviewSLAMinutes int      `toml:"review_sla_minutes"`
}

// Options converts to the explicit-parameter form the model functions take.
func (f Filters) Options() model.FilterOptions {
	return model.FilterOptions{
		HideDrafts:       f.HideDrafts,
		HideApprovedByMe: f.HideApprovedByMe,
		HideNotReady:     f.HideNotReady,
		RequiredChecks:   f.RequiredChecks,
		IgnoredChecks:    f.IgnoredChecks,
		IgnoredRepos:     f.IgnoredRepos,
	}
}

type Config struct {
	PollIntervalSeconds int     `toml:"poll_interval_seconds" env:"PR_RADAR_INTERVAL"`
	GHHost              string  `toml:"gh_host" env:"GH_HOST"`
	HistoryPath         string  `toml:"history_path" env:"PR_RADAR_HISTORY"`
	SoundEnabled        bool    `toml:"sound_enabled"`
	Filters             Filters `toml:"filters"`
	ConfigPath          string  `toml:"-" env:"-"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pr-radar", "config.toml")
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "pr-radar", "history.db")
}

// Load reads the TOML config, then applies env overrides. A missing file or
// missing fields yield defaults, never an error.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		PollIntervalSeconds: defaultPollIntervalSeconds,
		SoundEnabled:        true,
		HistoryPath:         defaultHistoryPath(),
		Filters: Filters{
			ReviewSLAMinutes: defaultReviewSLAMinutes,
		},
	}

	if configPath == "" {
		configPath = defaultConfigPath()
	}
	cfg.ConfigPath = configPath

	_ = godotenv.Load()

	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env overrides: %w", err)
	}

	if cfg.PollIntervalSeconds <= 0 {
		cfg.PollIntervalSeconds = defaultPollIntervalSeconds
	}
	if cfg.Filters.ReviewSLAMinutes < 1 {
		cfg.Filters.ReviewSLAMinutes = defaultReviewSLAMinutes
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = defaultHistoryPath()
	}

	return cfg, nil
}

// Save writes the config back to its TOML file.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.ConfigPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(c.ConfigPath)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// LoadFilters implements the settings-store contract for the orchestrator.
func (c *Config) LoadFilters() Filters {
	return c.Filters
}

// LoadPollInterval returns the configured poll interval.
func (c *Config) LoadPollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// SetPollInterval stores a new poll interval in seconds.
func (c *Config) SetPollInterval(seconds int) error {
	if seconds < 1 {
		return fmt.Errorf("poll interval must be at least 1 second")
	}
	c.PollIntervalSeconds = seconds
	return nil
}

// AddRequiredCheck appends a check name to the required list. A name cannot
// be both required and ignored.
func (c *Config) AddRequiredCheck(name string) error {
	if contains(c.Filters.IgnoredChecks, name) {
		return fmt.Errorf("check %q is already ignored; a check cannot be both required and ignored", name)
	}
	c.Filters.RequiredChecks = appendUnique(c.Filters.RequiredChecks, name)
	return nil
}

// AddIgnoredCheck appends a check name to the ignored list. A name cannot be
// both required and ignored.
func (c *Config) AddIgnoredCheck(name string) error {
	if contains(c.Filters.RequiredChecks, name) {
		return fmt.Errorf("check %q is already required; a check cannot be both required and ignored", name)
	}
	c.Filters.IgnoredChecks = appendUnique(c.Filters.IgnoredChecks, name)
	return nil
}

// AddIgnoredRepo appends a repository full name to the ignored list.
func (c *Config) AddIgnoredRepo(fullName string) {
	c.Filters.IgnoredRepos = appendUnique(c.Filters.IgnoredRepos, fullName)
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

// appendUnique preserves insertion order for display while keeping set
// membership semantics.
func appendUnique(list []string, name string) []string {
	if contains(list, name) {
		return list
	}
	return append(list, name)
}
