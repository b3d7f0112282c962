package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
	DB     DBConfig     `mapstructure:"db"`
	Serve  ServeConfig  `mapstructure:"serve"`
	Speech SpeechConfig `mapstructure:"speech"`
	Agents AgentsConfig `mapstructure:"agents"`
	Log    LogConfig    `mapstructure:"log"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	ImageModel string `mapstructure:"image_model"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type ServeConfig struct {
	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"` // AI requests per second, 0 disables
	Burst     int     `mapstructure:"burst"`
}

type SpeechConfig struct {
	Command     string `mapstructure:"command"` // split on whitespace
	VoiceFlag   string `mapstructure:"voice_flag"`
	MaleVoice   string `mapstructure:"male_voice"`
	FemaleVoice string `mapstructure:"female_voice"`
}

type AgentsConfig struct {
	Dir     string `mapstructure:"dir"`
	Pattern string `mapstructure:"pattern"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// loadConfig reads the optional config file, applies WORKFLOW_* environment
// overrides, and falls back to GEMINI_API_KEY then API_KEY for the API key.
// An explicit configFile must exist.
func loadConfig(v *viper.Viper, configFile string, getenv func(string) string) (Config, error) {
	configDir := configDir(getenv)
	dataDir := dataDir(getenv)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.image_model", "imagen-3.0-generate-002")
	v.SetDefault("db.path", filepath.Join(dataDir, "workflow.db"))
	v.SetDefault("serve.addr", "127.0.0.1:8080")
	v.SetDefault("serve.rate_limit", 1.0)
	v.SetDefault("serve.burst", 5)
	v.SetDefault("speech.command", "espeak-ng --stdin")
	v.SetDefault("speech.voice_flag", "-v")
	v.SetDefault("speech.male_voice", "en+m3")
	v.SetDefault("speech.female_voice", "en+f3")
	v.SetDefault("agents.dir", filepath.Join(configDir, "agents"))
	v.SetDefault("agents.pattern", "**/*.{yaml,yml}")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix("WORKFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = getenv("GEMINI_API_KEY")
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = getenv("API_KEY")
	}
	cfg.DB.Path = expandHome(cfg.DB.Path, getenv)
	cfg.Agents.Dir = expandHome(cfg.Agents.Dir, getenv)
	return cfg, nil
}

// configDir returns $XDG_CONFIG_HOME/workflow, or ~/.config/workflow.
func configDir(getenv func(string) string) string {
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "workflow")
	}
	return filepath.Join(getenv("HOME"), ".config", "workflow")
}

// dataDir returns $XDG_DATA_HOME/workflow, or ~/.local/share/workflow.
func dataDir(getenv func(string) string) string {
	if xdg := getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "workflow")
	}
	return filepath.Join(getenv("HOME"), ".local", "share", "workflow")
}

func expandHome(path string, getenv func(string) string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(getenv("HOME"), rest)
	}
	return path
}
