package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Defaults for a locally running BaatCheet backend.
const (
	DefaultServerURL = "ws://localhost:5001/ws"
	DefaultAPIBase   = "http://localhost:5001/api"
	DefaultLang      = "en-US"
	DefaultLocale    = "ur-PK"
)

// Config represents the global ~/.baatcheet/config.toml.
type Config struct {
	DefaultProfile string `toml:"default_profile"`
	ServerURL      string `toml:"server_url"`
	APIBase        string `toml:"api_base"`
	SpeechURL      string `toml:"speech_url"`
	AssistantLang  string `toml:"assistant_lang"`
	Locale         string `toml:"locale"`
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadWithEnv loads the config file (missing file is not an error) and then
// overlays BAATCHEET_* environment variables, including ones from a local
// .env file if present.
func LoadWithEnv(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		cfg = &Config{}
		cfg.applyDefaults()
	}
	_ = godotenv.Load()

	if v := os.Getenv("BAATCHEET_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("BAATCHEET_API_BASE"); v != "" {
		cfg.APIBase = v
	}
	if v := os.Getenv("BAATCHEET_SPEECH_URL"); v != "" {
		cfg.SpeechURL = v
	}
	if v := os.Getenv("BAATCHEET_LANG"); v != "" {
		cfg.AssistantLang = v
	}
	return cfg
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

func (c *Config) applyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.APIBase == "" {
		c.APIBase = DefaultAPIBase
	}
	if c.AssistantLang == "" {
		c.AssistantLang = DefaultLang
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
}
