package audio

const (
	DefaultSampleRate = 44100
	DefaultChannels   = 2
	DefaultFormat     = "linear16"
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Channels: DefaultChannels, Format: encodingFormat(DefaultFormat)}
}

// EncodingInfo describes decoded PCM handed to an output device.
type EncodingInfo struct {
	SampleRate int
	Channels   int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Channels == 0 || e.Format.Name() == ""
}

// BytesPerFrame is the size of one sample across all channels, or -1 for
// unknown formats.
func (e EncodingInfo) BytesPerFrame() int {
	size := e.Format.ByteSize()
	if size < 0 {
		return -1
	}
	return size * e.Channels
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingLinear16:
		return 2
	}
	return -1
}

const EncodingLinear16 encodingFormat = "linear16"
