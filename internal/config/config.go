package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	// Engine tunables
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`

	// GitHub content resolution
	GitHub GitHubConfig `yaml:"github" mapstructure:"github"`

	// Output settings
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

type EngineConfig struct {
	// ComplexityThreshold suppresses complexity deltas at or below
	// this absolute value.
	ComplexityThreshold int `yaml:"complexity_threshold" mapstructure:"complexity_threshold"`
	// MaxConcurrent caps the artifact fan-out; 0 means one per CPU.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	// ArtifactTimeout bounds the AST tier per artifact; a deadline
	// demotes to the pattern tier. Zero disables the bound.
	ArtifactTimeout time.Duration `yaml:"artifact_timeout" mapstructure:"artifact_timeout"`
}

type GitHubConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	RateLimit int    `yaml:"rate_limit" mapstructure:"rate_limit"` // Requests per second
}

type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "text", "json", "yaml"
	Color  string `yaml:"color" mapstructure:"color"`   // "auto", "always", "never"
	Quiet  bool   `yaml:"quiet" mapstructure:"quiet"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			ComplexityThreshold: 1,
			MaxConcurrent:       0,
			ArtifactTimeout:     10 * time.Second,
		},
		GitHub: GitHubConfig{
			RateLimit: 5,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
	}
}

// Load loads configuration from file, environment, and defaults
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("engine", cfg.Engine)
	v.SetDefault("github", cfg.GitHub)
	v.SetDefault("output", cfg.Output)

	v.SetEnvPrefix("DSCOPE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".dscope")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".dscope"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is fine; defaults apply.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".dscope", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if rateLimit := os.Getenv("GITHUB_RATE_LIMIT"); rateLimit != "" {
		if rps, err := strconv.Atoi(rateLimit); err == nil {
			cfg.GitHub.RateLimit = rps
		}
	}
	if threshold := os.Getenv("DSCOPE_COMPLEXITY_THRESHOLD"); threshold != "" {
		if n, err := strconv.Atoi(threshold); err == nil {
			cfg.Engine.ComplexityThreshold = n
		}
	}
}
