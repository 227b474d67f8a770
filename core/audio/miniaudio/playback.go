package miniaudio

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

type playback struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	device       *malgo.Device

	source        io.Reader
	bytesPerFrame int

	drained atomic.Bool
	playing atomic.Bool

	mu     sync.Mutex
	closed bool
}

func (p *playback) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("playback already closed")
	}

	return p.device.Start()
}

func (p *playback) IsPlaying() bool {
	return p.playing.Load()
}

func (p *playback) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.playing.Store(false)

	if p.device.IsStarted() {
		_ = p.device.Stop()
	}
	p.device.Uninit()

	err := p.audioContext.Uninit()
	p.audioContext.Free()
	return err
}

// processAudio runs on the device thread. Once the source is exhausted the
// next period is silence, after which playback is reported finished.
func (p *playback) processAudio(pOutput, _ []byte, frameCount uint32) {
	need := int(frameCount) * p.bytesPerFrame
	if need > len(pOutput) {
		need = len(pOutput)
	}

	if p.drained.Load() {
		clear(pOutput[:need])
		p.playing.Store(false)
		return
	}

	n, err := io.ReadFull(p.source, pOutput[:need])
	if n < need {
		clear(pOutput[n:need])
	}
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			logger.Warn("audio source failed mid playback", "error", err)
		}
		p.drained.Store(true)
	}
}
