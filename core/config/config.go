// Package config loads session settings from an optional dotenv file
// overridden by environment variables.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const DefaultEnvFile = ".env"

const (
	BackendMiniaudio = "miniaudio"
	BackendPortaudio = "portaudio"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	OpenAI     OpenAIConfig
	ElevenLabs ElevenLabsConfig
	Session    SessionConfig
	Audio      AudioConfig
}

type OpenAIConfig struct {
	APIKey  string `env:"OPENAI_APIKEY" validate:"required"`
	Model   string `env:"OPENAI_MODEL" validate:"required"`
	Persona string `env:"OPENAI_PERSONA" validate:"required"`
	BaseURL string `env:"OPENAI_BASEURL" validate:"omitempty,url"`
}

// ElevenLabsConfig configures speech. Without an API key speech is
// disabled and the session runs text only.
type ElevenLabsConfig struct {
	APIKey     string  `env:"ELEVENLABS_APIKEY"`
	Stability  float64 `env:"ELEVENLABS_STABILITY" validate:"gte=0,lte=1"`
	Similarity float64 `env:"ELEVENLABS_SIMILARITY" validate:"gte=0,lte=1"`
	Model      string  `env:"ELEVENLABS_MODEL" validate:"required"`
	BaseURL    string  `env:"ELEVENLABS_BASEURL" validate:"omitempty,url"`
}

func (c ElevenLabsConfig) Enabled() bool { return c.APIKey != "" }

type SessionConfig struct {
	QueueSize         int           `env:"SESSION_QUEUE" validate:"gt=0"`
	CompletionTimeout time.Duration `env:"SESSION_COMPLETION_TIMEOUT" validate:"gte=0"`
	SynthesisTimeout  time.Duration `env:"SESSION_SYNTHESIS_TIMEOUT" validate:"gte=0"`
	ArtifactDir       string        `env:"SESSION_ARTIFACT_DIR"`
}

type AudioConfig struct {
	Backend string `env:"AUDIO_BACKEND" validate:"oneof=miniaudio portaudio"`
}

func envKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", "."))
}

// Load reads envFile if it exists, then environment variables on top of
// it, applies defaults and validates the result.
func Load(envFile string) (*Config, error) {
	k := koanf.New(".")

	if envFile != "" {
		// A missing file is not an error, the environment alone is enough.
		_ = k.Load(file.Provider(envFile), dotenv.ParserEnv("", ".", envKey))
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		OpenAI: OpenAIConfig{
			APIKey:  k.String("openai.apikey"),
			Model:   k.String("openai.model"),
			Persona: k.String("openai.persona"),
			BaseURL: k.String("openai.baseurl"),
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey:  k.String("elevenlabs.apikey"),
			Model:   k.String("elevenlabs.model"),
			BaseURL: k.String("elevenlabs.baseurl"),
		},
		Session: SessionConfig{
			ArtifactDir: k.String("session.artifact.dir"),
		},
		Audio: AudioConfig{
			Backend: strings.ToLower(k.String("audio.backend")),
		},
	}

	// Apply defaults
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = DefaultModel
	}
	if cfg.OpenAI.Persona == "" {
		cfg.OpenAI.Persona = DefaultPersona
	}
	if cfg.ElevenLabs.Model == "" {
		cfg.ElevenLabs.Model = DefaultSynthesisModel
	}
	if cfg.Audio.Backend == "" {
		cfg.Audio.Backend = BackendMiniaudio
	}
	// Parse numbers and durations. Empty values fall back to defaults.
	var err error
	if cfg.ElevenLabs.Stability, err = parseFloat(k, "elevenlabs.stability", DefaultStability); err != nil {
		return nil, fmt.Errorf("%w: ELEVENLABS_STABILITY: %w", ErrInvalidConfig, err)
	}
	if cfg.ElevenLabs.Similarity, err = parseFloat(k, "elevenlabs.similarity", DefaultSimilarity); err != nil {
		return nil, fmt.Errorf("%w: ELEVENLABS_SIMILARITY: %w", ErrInvalidConfig, err)
	}
	if cfg.Session.QueueSize, err = parseInt(k, "session.queue", DefaultQueueSize); err != nil {
		return nil, fmt.Errorf("%w: SESSION_QUEUE: %w", ErrInvalidConfig, err)
	}

	if cfg.Session.CompletionTimeout, err = parseDuration(k, "session.completion.timeout", DefaultCompletionTimeout); err != nil {
		return nil, fmt.Errorf("%w: SESSION_COMPLETION_TIMEOUT: %w", ErrInvalidConfig, err)
	}
	if cfg.Session.SynthesisTimeout, err = parseDuration(k, "session.synthesis.timeout", DefaultSynthesisTimeout); err != nil {
		return nil, fmt.Errorf("%w: SESSION_SYNTHESIS_TIMEOUT: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseFloat(k *koanf.Koanf, key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(k.String(key))
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(value, 64)
}

func parseInt(k *koanf.Koanf, key string, fallback int) (int, error) {
	value := strings.TrimSpace(k.String(key))
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

func parseDuration(k *koanf.Koanf, key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(k.String(key))
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("env"); name != "" {
			return name
		}
		return field.Name
	})
	return v
}

// Validate collects every problem into a single error wrapping
// ErrInvalidConfig.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	problems := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		problems = append(problems, describeFieldError(fieldErr))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

func describeFieldError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "gte", "lte":
		if fieldErr.Kind() == reflect.Int64 {
			return fmt.Sprintf("%s must not be negative, got %v", fieldErr.Field(), fieldErr.Value())
		}
		return fmt.Sprintf("%s must be between 0 and 1, got %v", fieldErr.Field(), fieldErr.Value())
	case "gt":
		return fmt.Sprintf("%s must be positive, got %v", fieldErr.Field(), fieldErr.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", fieldErr.Field(), fieldErr.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fieldErr.Field(), fieldErr.Param(), fieldErr.Value())
	default:
		return fmt.Sprintf("%s failed %s", fieldErr.Field(), fieldErr.Tag())
	}
}
