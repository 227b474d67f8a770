package audio

import "io"

// PCMStream is decoded audio ready to be handed to an output device.
type PCMStream interface {
	io.Reader
	EncodingInfo() EncodingInfo
}

// Decoder turns an encoded artifact (e.g. MPEG audio) into PCM. Decode must
// fail with ErrLoadFailed when the data is not in a recognised format.
type Decoder interface {
	Decode(r io.Reader) (PCMStream, error)
}

// Output acquires an audio device for a single playback. Every successful
// Open must be paired with Playback.Close.
type Output interface {
	Open(info EncodingInfo, source io.Reader) (Playback, error)
}

// Playback is one acquired device session playing source to its end.
type Playback interface {
	Start() error
	// IsPlaying reports false once all of source has been played out.
	IsPlaying() bool
	// Close stops playback and releases the device. Repeated calls are
	// ignored.
	Close() error
}
