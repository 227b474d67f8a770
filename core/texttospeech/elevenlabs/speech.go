package elevenlabs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/koscakluka/ema-chat/core/audio"
	"github.com/koscakluka/ema-chat/core/audio/mp3"
	"github.com/koscakluka/ema-chat/core/texttospeech"
)

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize streams speech for text into a new artifact. The caller owns
// the returned artifact. On any failure no artifact is left behind.
func (c *Client) Synthesize(ctx context.Context, text string, voiceID string, settings texttospeech.VoiceSettings) (artifact audio.Artifact, err error) {
	if strings.TrimSpace(text) == "" {
		return audio.Artifact{}, fmt.Errorf("%w: empty text", texttospeech.ErrInvalidInput)
	}
	if strings.TrimSpace(voiceID) == "" {
		return audio.Artifact{}, fmt.Errorf("%w: empty voice id", texttospeech.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return audio.Artifact{}, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()
	span.SetAttributes(
		attribute.String("tts.voice_id", voiceID),
		attribute.String("tts.model_id", c.modelID),
		attribute.Int("tts.text_length", len(text)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	payload, err := sonic.Marshal(speechRequest{
		Text:    text,
		ModelID: c.modelID,
		VoiceSettings: voiceSettings{
			Stability:       settings.Stability,
			SimilarityBoost: settings.SimilarityBoost,
		},
	})
	if err != nil {
		return audio.Artifact{}, fmt.Errorf("%w: encoding request: %w", texttospeech.ErrInvalidInput, err)
	}

	path := "/v1/text-to-speech/" + url.PathEscape(voiceID) + "/stream"
	req, err := c.newRequest(ctx, http.MethodPost, path, mp3.ContentType, bytes.NewReader(payload))
	if err != nil {
		return audio.Artifact{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return audio.Artifact{}, err
	}
	defer resp.Body.Close()

	writer, err := c.store.Create("speech-*.mp3", mp3.ContentType)
	if err != nil {
		return audio.Artifact{}, err
	}

	written, err := io.Copy(writer, resp.Body)
	if err != nil {
		if discardErr := writer.Discard(); discardErr != nil {
			logger.WarnContext(ctx, "failed to discard partial speech artifact", "error", discardErr)
		}
		if errors.Is(err, audio.ErrStorage) {
			return audio.Artifact{}, err
		}
		return audio.Artifact{}, fmt.Errorf("%w: downloading speech: %w", texttospeech.ErrTransport, err)
	}

	artifact, err = writer.Commit()
	if err != nil {
		return audio.Artifact{}, err
	}

	span.SetAttributes(attribute.Int64("tts.artifact_bytes", written))
	return artifact, nil
}
