package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath         = "config.toml"
	DefaultHTTPAddr           = ":3001"
	DefaultLineContentBaseURL = "https://api-data.line.me"
	DefaultGeminiBaseURL      = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel        = "gemini-pro"

	// DistributionPush fans out new content over a persistent connection;
	// DistributionPoll leaves delivery to the snapshot endpoint.
	DistributionPush = "push"
	DistributionPoll = "poll"
)

type Config struct {
	Log          LogConfig          `toml:"log"`
	Server       ServerConfig       `toml:"server"`
	Line         LineConfig         `toml:"line"`
	Gemini       GeminiConfig       `toml:"gemini"`
	Distribution DistributionConfig `toml:"distribution"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr         string `toml:"addr"`
	ClientOrigin string `toml:"client_origin"`
}

type LineConfig struct {
	ChannelSecret      string `toml:"channel_secret"`
	ChannelAccessToken string `toml:"channel_access_token"`
	ContentBaseURL     string `toml:"content_base_url"`
}

type GeminiConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

type DistributionConfig struct {
	Mode string `toml:"mode"`
}

// Load reads the TOML config at path, falling back to defaults when the file
// does not exist. Credentials are overridable through the environment so
// deployments never need secrets inside config.toml. A missing credential is
// not an error; the affected feature degrades at runtime instead.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Line: LineConfig{
			ContentBaseURL: DefaultLineContentBaseURL,
		},
		Gemini: GeminiConfig{
			BaseURL: DefaultGeminiBaseURL,
			Model:   DefaultGeminiModel,
		},
		Distribution: DistributionConfig{
			Mode: DistributionPush,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, validate(cfg)
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, validate(cfg)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LINE_CHANNEL_SECRET"); v != "" {
		cfg.Line.ChannelSecret = v
	}
	if v := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"); v != "" {
		cfg.Line.ChannelAccessToken = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("CLIENT_ORIGIN"); v != "" {
		cfg.Server.ClientOrigin = v
	}
}

func validate(cfg Config) error {
	switch cfg.Distribution.Mode {
	case DistributionPush, DistributionPoll:
		return nil
	default:
		return fmt.Errorf("distribution mode must be %q or %q, got %q", DistributionPush, DistributionPoll, cfg.Distribution.Mode)
	}
}
