package texttospeech

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned before any network call when the request
	// cannot be synthesized as given.
	ErrInvalidInput = errors.New("invalid synthesis input")
	// ErrTransport covers connection failures, non-success statuses and
	// interrupted downloads.
	ErrTransport = errors.New("synthesis transport failed")
	// ErrMalformedResponse is returned when a response body could not be
	// decoded into the expected shape.
	ErrMalformedResponse = errors.New("synthesis response malformed")
)

// Voice is one entry of the remote voice catalog. Labels hold descriptive
// tags such as accent or gender.
type Voice struct {
	ID       string
	Name     string
	Category string
	Labels   map[string]string
}

// VoiceSettings tune the synthesized voice. Both values are in [0, 1].
type VoiceSettings struct {
	Stability       float64
	SimilarityBoost float64
}

const (
	DefaultStability       = 0.5
	DefaultSimilarityBoost = 0.75
)

func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Stability:       DefaultStability,
		SimilarityBoost: DefaultSimilarityBoost,
	}
}

func (s VoiceSettings) Validate() error {
	if s.Stability < 0 || s.Stability > 1 {
		return fmt.Errorf("%w: stability %v outside [0, 1]", ErrInvalidInput, s.Stability)
	}
	if s.SimilarityBoost < 0 || s.SimilarityBoost > 1 {
		return fmt.Errorf("%w: similarity boost %v outside [0, 1]", ErrInvalidInput, s.SimilarityBoost)
	}
	return nil
}
