// Package portaudio plays PCM through the default PortAudio output stream.
package portaudio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"

	"github.com/koscakluka/ema-chat/core/audio"
)

const DefaultFramesPerBuffer = 1024

var _ audio.Output = (*Output)(nil)

type Output struct {
	framesPerBuffer int
}

func NewOutput(framesPerBuffer int) *Output {
	if framesPerBuffer <= 0 {
		framesPerBuffer = DefaultFramesPerBuffer
	}
	return &Output{framesPerBuffer: framesPerBuffer}
}

func (o *Output) Open(info audio.EncodingInfo, source io.Reader) (audio.Playback, error) {
	if info.IsZero() {
		info = audio.GetDefaultEncodingInfo()
	}
	if info.Format != audio.EncodingLinear16 {
		return nil, fmt.Errorf("unsupported sample format %q", info.Format.Name())
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	out := make([]int16, o.framesPerBuffer*info.Channels)
	stream, err := portaudio.OpenDefaultStream(0, info.Channels, float64(info.SampleRate), o.framesPerBuffer, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open PortAudio stream: %w", err)
	}

	return &playback{
		stream: stream,
		source: source,
		out:    out,
		stop:   make(chan struct{}),
	}, nil
}

type playback struct {
	stream *portaudio.Stream
	source io.Reader
	out    []int16

	playing atomic.Bool
	stop    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	started bool
	closed  bool
}

func (p *playback) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("playback already closed")
	}
	if p.started {
		return nil
	}

	if err := p.stream.Start(); err != nil {
		return fmt.Errorf("failed to start PortAudio stream: %w", err)
	}
	p.started = true
	p.playing.Store(true)

	p.wg.Add(1)
	go p.writeLoop()
	return nil
}

func (p *playback) writeLoop() {
	defer p.wg.Done()
	defer p.playing.Store(false)

	buffer := make([]byte, len(p.out)*2)
	for {
		select {
		case <-p.stop:
			return
		default:
		}

		n, err := io.ReadFull(p.source, buffer)
		if n == 0 {
			return
		}
		clear(buffer[n:])

		_ = binary.Read(bytes.NewReader(buffer), binary.LittleEndian, p.out)
		if writeErr := p.stream.Write(); writeErr != nil {
			logger.Warn("failed to write to PortAudio stream", "error", writeErr)
			return
		}
		if err != nil {
			return
		}
	}
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

	close(p.stop)
	p.wg.Wait()

	var errs []error
	if p.started {
		errs = append(errs, p.stream.Stop())
	}
	errs = append(errs, p.stream.Close(), portaudio.Terminate())
	return errors.Join(errs...)
}
