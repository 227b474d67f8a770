package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"OPENAI_APIKEY", "OPENAI_MODEL", "OPENAI_PERSONA", "OPENAI_BASEURL",
	"ELEVENLABS_APIKEY", "ELEVENLABS_STABILITY", "ELEVENLABS_SIMILARITY", "ELEVENLABS_MODEL", "ELEVENLABS_BASEURL",
	"SESSION_QUEUE", "SESSION_COMPLETION_TIMEOUT", "SESSION_SYNTHESIS_TIMEOUT", "SESSION_ARTIFACT_DIR",
	"AUDIO_BACKEND",
}

// clearEnv blanks every config key so the host environment does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_APIKEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.OpenAI.Model != DefaultModel || cfg.OpenAI.Persona != DefaultPersona {
		t.Fatalf("unexpected openai defaults %+v", cfg.OpenAI)
	}
	if cfg.ElevenLabs.Stability != 0.5 || cfg.ElevenLabs.Similarity != 0.75 || cfg.ElevenLabs.Model != "eleven_multilingual_v1" {
		t.Fatalf("unexpected elevenlabs defaults %+v", cfg.ElevenLabs)
	}
	if cfg.ElevenLabs.Enabled() {
		t.Fatalf("expected speech to be disabled without an api key")
	}
	if cfg.Session.QueueSize != 16 || cfg.Session.CompletionTimeout != 60*time.Second || cfg.Session.SynthesisTimeout != 120*time.Second {
		t.Fatalf("unexpected session defaults %+v", cfg.Session)
	}
	if cfg.Audio.Backend != BackendMiniaudio {
		t.Fatalf("expected miniaudio backend by default, got %q", cfg.Audio.Backend)
	}
}

func TestLoadReadsEnvFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, strings.Join([]string{
		"OPENAI_APIKEY=sk-file",
		"OPENAI_PERSONA=You are terse.",
		"ELEVENLABS_APIKEY=xi-file",
		"ELEVENLABS_STABILITY=0.3",
		"SESSION_COMPLETION_TIMEOUT=30s",
		"AUDIO_BACKEND=portaudio",
	}, "\n"))
	t.Setenv("OPENAI_APIKEY", "sk-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.OpenAI.APIKey != "sk-env" {
		t.Fatalf("expected environment to override the file, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Persona != "You are terse." {
		t.Fatalf("expected persona from file, got %q", cfg.OpenAI.Persona)
	}
	if !cfg.ElevenLabs.Enabled() || cfg.ElevenLabs.Stability != 0.3 {
		t.Fatalf("unexpected elevenlabs config %+v", cfg.ElevenLabs)
	}
	if cfg.Session.CompletionTimeout != 30*time.Second {
		t.Fatalf("expected 30s completion timeout, got %v", cfg.Session.CompletionTimeout)
	}
	if cfg.Audio.Backend != BackendPortaudio {
		t.Fatalf("expected portaudio backend, got %q", cfg.Audio.Backend)
	}
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_APIKEY", "sk-test")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing env file to be ignored, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		problem string
	}{
		{name: "missing api key", env: map[string]string{}, problem: "OPENAI_APIKEY is required"},
		{name: "stability out of range", env: map[string]string{"OPENAI_APIKEY": "sk", "ELEVENLABS_STABILITY": "1.5"}, problem: "ELEVENLABS_STABILITY"},
		{name: "zero queue", env: map[string]string{"OPENAI_APIKEY": "sk", "SESSION_QUEUE": "0"}, problem: "SESSION_QUEUE must be positive"},
		{name: "unknown backend", env: map[string]string{"OPENAI_APIKEY": "sk", "AUDIO_BACKEND": "alsa"}, problem: "AUDIO_BACKEND"},
		{name: "bad url", env: map[string]string{"OPENAI_APIKEY": "sk", "OPENAI_BASEURL": "not a url"}, problem: "OPENAI_BASEURL"},
		{name: "non-numeric stability", env: map[string]string{"OPENAI_APIKEY": "sk", "ELEVENLABS_STABILITY": "abc"}, problem: "ELEVENLABS_STABILITY"},
		{name: "non-numeric similarity", env: map[string]string{"OPENAI_APIKEY": "sk", "ELEVENLABS_SIMILARITY": "high"}, problem: "ELEVENLABS_SIMILARITY"},
		{name: "non-numeric queue", env: map[string]string{"OPENAI_APIKEY": "sk", "SESSION_QUEUE": "lots"}, problem: "SESSION_QUEUE"},
		{name: "bad duration", env: map[string]string{"OPENAI_APIKEY": "sk", "SESSION_SYNTHESIS_TIMEOUT": "soon"}, problem: "SESSION_SYNTHESIS_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load("")
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected invalid config, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.problem) {
				t.Fatalf("expected error to mention %q, got %q", tt.problem, err.Error())
			}
		})
	}
}
