// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml), with ${VAR} expansion
//  2. Environment variables (fallback), optionally seeded from a .env file
//
// Example usage:
//
//	cfg, err := config.LoadOrEnv("config.yaml")
//	token := cfg.Toggl.APIToken
//	dbPath := cfg.Storage.DatabasePath
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	GitLab        GitLabConfig        `yaml:"gitlab"`
	GitHub        GitHubConfig        `yaml:"github"`
	Toggl         TogglConfig         `yaml:"toggl"`
	Reconcile     ReconcileConfig     `yaml:"reconcile"`
	Storage       StorageConfig       `yaml:"storage"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// GitLabConfig holds GitLab API configuration
type GitLabConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// GitHubConfig holds GitHub API configuration
type GitHubConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"` // GitHub Enterprise API root (optional)
	User    string `yaml:"user"`     // Defaults to the token's owner
}

// TogglConfig holds Toggl Track API configuration
type TogglConfig struct {
	APIToken          string  `yaml:"api_token"`
	WorkspaceID       int64   `yaml:"workspace_id"`
	BaseURL           string  `yaml:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	MaxRetries        int     `yaml:"max_retries"`
}

// ReconcileConfig holds reconciliation settings
type ReconcileConfig struct {
	UnitSeconds    int    `yaml:"unit_seconds"`    // Seconds credited per missing occurrence
	SourceTag      string `yaml:"source_tag"`      // Tag on every imported entry
	ActivitySource string `yaml:"activity_source"` // "gitlab" or "github"
	ResultDir      string `yaml:"result_dir"`
	Consumption    string `yaml:"consumption"` // "bucket" or "one"
}

// StorageConfig holds database configuration
type StorageConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// APIConfig holds HTTP API configuration
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Errors returned by the Require helpers.
var (
	ErrMissingGitLabToken = errors.New("gitlab token is not configured")
	ErrMissingGitHubToken = errors.New("github token is not configured")
	ErrMissingTogglToken  = errors.New("toggl api token is not configured")
	ErrMissingWorkspace   = errors.New("toggl workspace id is not configured")
)

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{Storage: StorageConfig{Enabled: true}}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${TOGGL_API_TOKEN})
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{Storage: StorageConfig{Enabled: true}}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// envConfig is the flat environment variable view of Config
type envConfig struct {
	GitLabURL   string `envconfig:"GITLAB_URL" default:"https://gitlab.com"`
	GitLabToken string `envconfig:"GITLAB_TOKEN"`

	GitHubToken   string `envconfig:"GITHUB_TOKEN"`
	GitHubBaseURL string `envconfig:"GITHUB_BASE_URL"`
	GitHubUser    string `envconfig:"GITHUB_USER"`

	TogglAPIToken          string  `envconfig:"TOGGL_API_TOKEN"`
	TogglWorkspaceID       int64   `envconfig:"TOGGL_WORKSPACE_ID"`
	TogglBaseURL           string  `envconfig:"TOGGL_BASE_URL" default:"https://api.track.toggl.com/api/v9"`
	TogglRequestsPerSecond float64 `envconfig:"TOGGL_REQUESTS_PER_SECOND" default:"1"`
	TogglMaxRetries        int     `envconfig:"TOGGL_MAX_RETRIES" default:"3"`

	UnitSeconds    int    `envconfig:"WORKLOG_UNIT_SECONDS" default:"1800"`
	SourceTag      string `envconfig:"WORKLOG_SOURCE_TAG" default:"source-import"`
	ActivitySource string `envconfig:"WORKLOG_ACTIVITY_SOURCE" default:"gitlab"`
	ResultDir      string `envconfig:"WORKLOG_RESULT_DIR" default:"result"`
	Consumption    string `envconfig:"WORKLOG_CONSUMPTION" default:"bucket"`

	StorageEnabled bool   `envconfig:"WORKLOG_STORAGE_ENABLED" default:"true"`
	DatabasePath   string `envconfig:"WORKLOG_DB_PATH" default:"worklog.db"`

	APIPort        int      `envconfig:"WORKLOG_API_PORT" default:"8085"`
	AllowedOrigins []string `envconfig:"WORKLOG_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() (*Config, error) {
	var env envConfig
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	return &Config{
		GitLab: GitLabConfig{
			URL:   env.GitLabURL,
			Token: env.GitLabToken,
		},
		GitHub: GitHubConfig{
			Token:   env.GitHubToken,
			BaseURL: env.GitHubBaseURL,
			User:    env.GitHubUser,
		},
		Toggl: TogglConfig{
			APIToken:          env.TogglAPIToken,
			WorkspaceID:       env.TogglWorkspaceID,
			BaseURL:           env.TogglBaseURL,
			RequestsPerSecond: env.TogglRequestsPerSecond,
			MaxRetries:        env.TogglMaxRetries,
		},
		Reconcile: ReconcileConfig{
			UnitSeconds:    env.UnitSeconds,
			SourceTag:      env.SourceTag,
			ActivitySource: env.ActivitySource,
			ResultDir:      env.ResultDir,
			Consumption:    env.Consumption,
		},
		Storage: StorageConfig{
			Enabled:      env.StorageEnabled,
			DatabasePath: env.DatabasePath,
		},
		API: APIConfig{
			Port:           env.APIPort,
			AllowedOrigins: env.AllowedOrigins,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  env.LogLevel,
				Format: env.LogFormat,
			},
		},
	}, nil
}

// LoadOrEnv loads the .env file if present, then the YAML file at path if
// it exists, falling back to environment variables
func LoadOrEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// RequireGitLab checks that GitLab credentials are present
func (c *Config) RequireGitLab() error {
	if c.GitLab.Token == "" {
		return ErrMissingGitLabToken
	}
	return nil
}

// RequireGitHub checks that GitHub credentials are present
func (c *Config) RequireGitHub() error {
	if c.GitHub.Token == "" {
		return ErrMissingGitHubToken
	}
	return nil
}

// RequireToggl checks that Toggl credentials are present
func (c *Config) RequireToggl() error {
	if c.Toggl.APIToken == "" {
		return ErrMissingTogglToken
	}
	if c.Toggl.WorkspaceID == 0 {
		return ErrMissingWorkspace
	}
	return nil
}

// applyDefaults fills zero values left by a partial YAML file
func (c *Config) applyDefaults() {
	setDefault(&c.GitLab.URL, "https://gitlab.com")
	setDefault(&c.Toggl.BaseURL, "https://api.track.toggl.com/api/v9")
	if c.Toggl.RequestsPerSecond <= 0 {
		c.Toggl.RequestsPerSecond = 1
	}
	if c.Toggl.MaxRetries <= 0 {
		c.Toggl.MaxRetries = 3
	}
	if c.Reconcile.UnitSeconds <= 0 {
		c.Reconcile.UnitSeconds = 1800
	}
	setDefault(&c.Reconcile.SourceTag, "source-import")
	setDefault(&c.Reconcile.ActivitySource, "gitlab")
	setDefault(&c.Reconcile.ResultDir, "result")
	setDefault(&c.Reconcile.Consumption, "bucket")
	setDefault(&c.Storage.DatabasePath, "worklog.db")
	if c.API.Port == 0 {
		c.API.Port = 8085
	}
	if len(c.API.AllowedOrigins) == 0 {
		c.API.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	setDefault(&c.Observability.Logging.Level, "info")
	setDefault(&c.Observability.Logging.Format, "text")
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
