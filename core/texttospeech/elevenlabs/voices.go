package elevenlabs

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/koscakluka/ema-chat/core/texttospeech"
)

type voicesResponse struct {
	Voices *[]voiceEntry `json:"voices"`
}

type voiceEntry struct {
	VoiceID  string            `json:"voice_id"`
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Labels   map[string]string `json:"labels"`
}

// FetchVoices lists the voices available to the account in catalog order.
func (c *Client) FetchVoices(ctx context.Context) (voices []texttospeech.Voice, err error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	ctx, span := tracer.Start(ctx, "fetch voices")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	req, err := c.newRequest(ctx, http.MethodGet, "/v1/voices", "application/json", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading voices: %w", texttospeech.ErrTransport, err)
	}

	voices, err = decodeVoices(body)
	if err != nil {
		logger.WarnContext(ctx, "voice catalog could not be decoded", "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("tts.voices", len(voices)))
	return voices, nil
}

func decodeVoices(body []byte) ([]texttospeech.Voice, error) {
	var payload voicesResponse
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", texttospeech.ErrMalformedResponse, err)
	}
	if payload.Voices == nil {
		return nil, fmt.Errorf("%w: missing voices list", texttospeech.ErrMalformedResponse)
	}

	voices := make([]texttospeech.Voice, 0, len(*payload.Voices))
	for i, entry := range *payload.Voices {
		if entry.VoiceID == "" {
			return nil, fmt.Errorf("%w: voice %d has no id", texttospeech.ErrMalformedResponse, i)
		}
		voices = append(voices, texttospeech.Voice{
			ID:       entry.VoiceID,
			Name:     entry.Name,
			Category: entry.Category,
			Labels:   entry.Labels,
		})
	}
	return voices, nil
}
