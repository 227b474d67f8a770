// Package mp3 decodes MPEG audio artifacts into 16-bit stereo PCM.
package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/koscakluka/ema-chat/core/audio"
)

const ContentType = "audio/mpeg"

var _ audio.Decoder = Decoder{}

type Decoder struct{}

func NewDecoder() Decoder { return Decoder{} }

func (Decoder) Decode(r io.Reader) (audio.PCMStream, error) {
	decoder, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not a decodable mp3 stream: %w", audio.ErrLoadFailed, err)
	}
	if decoder.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: invalid sample rate %d", audio.ErrLoadFailed, decoder.SampleRate())
	}

	return &stream{decoder: decoder}, nil
}

type stream struct {
	decoder *gomp3.Decoder
}

func (s *stream) Read(p []byte) (int, error) { return s.decoder.Read(p) }

// EncodingInfo is fixed by go-mp3: it always produces little-endian 16-bit
// stereo samples.
func (s *stream) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: s.decoder.SampleRate(),
		Channels:   2,
		Format:     audio.EncodingLinear16,
	}
}
