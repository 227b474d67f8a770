package config

import "time"

const (
	DefaultModel          = "gpt-3.5-turbo"
	DefaultPersona        = "You are a very helpful assistant."
	DefaultSynthesisModel = "eleven_multilingual_v1"

	DefaultStability  = 0.5
	DefaultSimilarity = 0.75

	DefaultQueueSize         = 16
	DefaultCompletionTimeout = 60 * time.Second
	DefaultSynthesisTimeout  = 120 * time.Second
)
