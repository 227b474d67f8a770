// Package miniaudio plays PCM through the default output device using
// miniaudio via malgo.
package miniaudio

import (
	"fmt"
	"io"

	"github.com/gen2brain/malgo"

	"github.com/koscakluka/ema-chat/core/audio"
)

var _ audio.Output = (*Output)(nil)

// Output opens a fresh miniaudio context and playback device for every
// playback, so nothing is held between artifacts.
type Output struct {
	periods int
}

func NewOutput() *Output {
	return &Output{periods: 4}
}

func (o *Output) Open(info audio.EncodingInfo, source io.Reader) (audio.Playback, error) {
	if info.IsZero() {
		info = audio.GetDefaultEncodingInfo()
	}
	if info.Format != audio.EncodingLinear16 {
		return nil, fmt.Errorf("unsupported sample format %q", info.Format.Name())
	}

	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debug("malgo", "message", message)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	p := &playback{
		audioContext:  audioCtx,
		source:        source,
		bytesPerFrame: info.BytesPerFrame(),
	}
	p.playing.Store(true)

	sampleRate := uint32(info.SampleRate)
	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = sampleRate
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = uint32(info.Channels)
	config.Alsa.NoMMap = 1
	config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	config.Periods = uint32(o.periods)

	if p.device, err = malgo.InitDevice(
		audioCtx.Context,
		config,
		malgo.DeviceCallbacks{Data: p.processAudio},
	); err != nil {
		_ = audioCtx.Uninit()
		audioCtx.Free()
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}

	return p, nil
}
