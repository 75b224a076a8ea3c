package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type WhisperConfig struct {
	URL         string `mapstructure:"url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

func (w WhisperConfig) Timeout() time.Duration {
	return time.Duration(w.TimeoutSecs) * time.Second
}

type OllamaConfig struct {
	URLs  []string `mapstructure:"urls"`
	Model string   `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// StructurerConfig selects and configures the LLM provider that turns raw
// transcripts into titled markdown notes.
type StructurerConfig struct {
	Provider    string       `mapstructure:"provider"`
	TimeoutSecs int          `mapstructure:"timeout_secs"`
	Ollama      OllamaConfig `mapstructure:"ollama"`
	OpenAI      OpenAIConfig `mapstructure:"openai"`
	Gemini      GeminiConfig `mapstructure:"gemini"`
}

func (s StructurerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type Settings struct {
	Server     ServerConfig     `mapstructure:"server"`
	Whisper    WhisperConfig    `mapstructure:"whisper"`
	Structurer StructurerConfig `mapstructure:"structurer"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Env        string           `mapstructure:"env"`
	Debug      bool             `mapstructure:"debug"`
}

func Load() (*Settings, error) {
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("whisper.url", "http://whisper:9000")
	viper.SetDefault("whisper.timeout_secs", 120)
	viper.SetDefault("structurer.provider", "ollama")
	viper.SetDefault("structurer.timeout_secs", 120)
	viper.SetDefault("structurer.ollama.urls", []string{"http://ollama:11434"})
	viper.SetDefault("structurer.ollama.model", "qwen2.5:7b")
	viper.SetDefault("structurer.openai.model", "gpt-4o-mini")
	viper.SetDefault("structurer.gemini.model", "gemini-1.5-flash-latest")
	viper.SetDefault("upload.max_bytes", int64(100<<20))
	viper.SetDefault("debug", false)

	viper.SetConfigName("config_" + genEnv())
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		// env-only deployments run without a config file
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&settings)

	return &settings, nil
}

// applyEnvOverrides keeps the container-level knobs the deployment already
// uses working without a config file.
func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		s.Structurer.Ollama.URLs = []string{v}
	}
	if v := os.Getenv("WHISPER_URL"); v != "" {
		s.Whisper.URL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		s.Structurer.OpenAI.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		s.Structurer.Gemini.APIKey = v
	}
}

func genEnv() string {
	env := viper.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
