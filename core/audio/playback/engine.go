// Package playback plays stored audio artifacts on a local output device,
// one at a time, blocking until the artifact has been played out.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/koscakluka/ema-chat/core/audio"
)

const DefaultPollInterval = 100 * time.Millisecond

type Engine struct {
	output       audio.Output
	decoder      audio.Decoder
	pollInterval time.Duration

	// device is held for the whole of a playback; the output device is a
	// process-wide resource.
	device sync.Mutex
}

type EngineOption func(*Engine)

func WithPollInterval(interval time.Duration) EngineOption {
	return func(e *Engine) {
		if interval > 0 {
			e.pollInterval = interval
		}
	}
}

func NewEngine(output audio.Output, decoder audio.Decoder, opts ...EngineOption) *Engine {
	engine := &Engine{
		output:       output,
		decoder:      decoder,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Play decodes artifact and plays it to the end. The output device and the
// decoded stream are released on every return path. Play does not remove the
// artifact; that is left to its owner.
func (e *Engine) Play(ctx context.Context, artifact audio.Artifact) (err error) {
	if !e.device.TryLock() {
		return audio.ErrDeviceBusy
	}
	defer e.device.Unlock()

	ctx, span := tracer.Start(ctx, "play artifact")
	defer span.End()
	span.SetAttributes(attribute.String("audio.artifact", artifact.Path))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	source, err := artifact.Open()
	if err != nil {
		return err
	}
	defer source.Close()

	if e.decoder == nil {
		return fmt.Errorf("%w: no decoder configured", audio.ErrLoadFailed)
	}
	stream, err := e.decoder.Decode(source)
	if err != nil {
		if !errors.Is(err, audio.ErrLoadFailed) {
			err = fmt.Errorf("%w: %w", audio.ErrLoadFailed, err)
		}
		return err
	}

	if e.output == nil {
		return fmt.Errorf("%w: no output configured", audio.ErrDeviceUnavailable)
	}
	playback, err := e.output.Open(stream.EncodingInfo(), stream)
	if err != nil {
		return fmt.Errorf("%w: %w", audio.ErrDeviceUnavailable, err)
	}
	defer func() {
		if closeErr := playback.Close(); closeErr != nil {
			logger.WarnContext(ctx, "failed to release audio device", "error", closeErr)
		}
	}()

	if err := playback.Start(); err != nil {
		return fmt.Errorf("%w: %w", audio.ErrDeviceUnavailable, err)
	}

	return e.awaitCompletion(ctx, playback)
}

func (e *Engine) awaitCompletion(ctx context.Context, playback audio.Playback) error {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for playback.IsPlaying() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", audio.ErrPlaybackInterrupted, ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}
