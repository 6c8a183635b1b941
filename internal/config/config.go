// Package config loads lezen settings from defaults, an optional config
// file and LEZEN_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/lezen/internal/llm"
	"github.com/abhisek/lezen/internal/logger"
	"github.com/abhisek/lezen/internal/reading"
)

// EnvPrefix prefixes every environment variable, e.g. LEZEN_LLM_PROVIDER.
const EnvPrefix = "LEZEN"

// Config is the full application configuration.
type Config struct {
	LLM        llm.Config
	Server     ServerConfig
	Log        logger.Config
	DB         DBConfig
	Export     ExportConfig
	Generation GenerationConfig
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type DBConfig struct {
	// Path of the request log database. Empty disables the log.
	Path string
}

type ExportConfig struct {
	// Dir receives documents exported from the terminal UI.
	Dir string
}

type GenerationConfig struct {
	// StrictCount rejects content whose question count differs from the
	// requested count instead of accepting it with a warning.
	StrictCount bool
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()
	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.max_tokens", d.MaxTokens)
	v.SetDefault("llm.temperature", d.Temperature)
	for name, model := range map[string]string{
		"gemini":     d.Gemini.Model,
		"openai":     d.OpenAI.Model,
		"anthropic":  d.Anthropic.Model,
		"openrouter": d.OpenRouter.Model,
	} {
		v.SetDefault("llm."+name+".api_key", "")
		v.SetDefault("llm."+name+".model", model)
		v.SetDefault("llm."+name+".base_url", "")
	}

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.read_timeout", 15*time.Second)
	// Generation requests hold the response open for up to llm.timeout.
	v.SetDefault("server.write_timeout", 2*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logger.FormatConsole)
	v.SetDefault("log.file", "")

	v.SetDefault("db.path", "")
	v.SetDefault("export.dir", ".")
	v.SetDefault("generation.strict_count", false)
}

// Load reads the configuration from v. If a config file was set on v
// (v.SetConfigFile) it is read first. Environment variables override the
// file; flags bound to v override both.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.ConfigFileUsed(); path != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		LLM: llm.Config{
			Provider: strings.ToLower(v.GetString("llm.provider")),
			Gemini: llm.GeminiConfig{
				APIKey:  v.GetString("llm.gemini.api_key"),
				Model:   v.GetString("llm.gemini.model"),
				BaseURL: v.GetString("llm.gemini.base_url"),
			},
			OpenAI: llm.OpenAIConfig{
				APIKey:  v.GetString("llm.openai.api_key"),
				Model:   v.GetString("llm.openai.model"),
				BaseURL: v.GetString("llm.openai.base_url"),
			},
			Anthropic: llm.AnthropicConfig{
				APIKey:  v.GetString("llm.anthropic.api_key"),
				Model:   v.GetString("llm.anthropic.model"),
				BaseURL: v.GetString("llm.anthropic.base_url"),
			},
			OpenRouter: llm.OpenRouterConfig{
				APIKey:  v.GetString("llm.openrouter.api_key"),
				Model:   v.GetString("llm.openrouter.model"),
				BaseURL: v.GetString("llm.openrouter.base_url"),
			},
			Timeout:     v.GetDuration("llm.timeout"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
			Temperature: v.GetFloat64("llm.temperature"),
		},
		Server: ServerConfig{
			Addr:           v.GetString("server.addr"),
			AllowedOrigins: splitList(v.GetStringSlice("server.allowed_origins")),
			ReadTimeout:    v.GetDuration("server.read_timeout"),
			WriteTimeout:   v.GetDuration("server.write_timeout"),
		},
		Log: logger.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   v.GetString("log.file"),
		},
		DB:         DBConfig{Path: v.GetString("db.path")},
		Export:     ExportConfig{Dir: v.GetString("export.dir")},
		Generation: GenerationConfig{StrictCount: v.GetBool("generation.strict_count")},
	}

	if model := v.GetString("llm.model"); model != "" {
		setModel(&cfg.LLM, model)
	}

	if !cfg.LLM.FillKeyFromEnv() && !providerChosen(v) {
		// No provider chosen and no Gemini key: take the first provider
		// whose standard key variable is present.
		if found, ok := llm.DiscoverConfig(); ok {
			cfg.LLM.Provider = found.Provider
			cfg.LLM.FillKeyFromEnv()
		}
	}

	return cfg, nil
}

// Reading returns the generation settings derived from cfg.
func (c Config) Reading() reading.Config {
	rc := reading.DefaultConfig()
	rc.Validators = reading.DefaultValidators(c.Generation.StrictCount)
	if c.LLM.MaxTokens > 0 {
		rc.MaxTokens = c.LLM.MaxTokens
	}
	rc.Temperature = c.LLM.Temperature
	return rc
}

// providerChosen reports whether llm.provider came from the config file, a
// flag or the environment rather than the default.
func providerChosen(v *viper.Viper) bool {
	if v.InConfig("llm.provider") || v.GetString("llm.provider") != llm.DefaultConfig().Provider {
		return true
	}
	_, ok := os.LookupEnv(EnvPrefix + "_LLM_PROVIDER")
	return ok
}

func setModel(c *llm.Config, model string) {
	switch c.Provider {
	case "gemini":
		c.Gemini.Model = model
	case "openai":
		c.OpenAI.Model = model
	case "anthropic":
		c.Anthropic.Model = model
	case "openrouter":
		c.OpenRouter.Model = model
	}
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
