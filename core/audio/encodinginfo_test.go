package audio

import "testing"

func TestBytesPerFrame(t *testing.T) {
	tests := []struct {
		name     string
		info     EncodingInfo
		expected int
	}{
		{name: "default stereo", info: GetDefaultEncodingInfo(), expected: 4},
		{name: "mono linear16", info: EncodingInfo{SampleRate: 22050, Channels: 1, Format: EncodingLinear16}, expected: 2},
		{name: "unsupported format", info: EncodingInfo{SampleRate: 8000, Channels: 1, Format: encodingFormat("mulaw")}, expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.BytesPerFrame(); got != tt.expected {
				t.Fatalf("expected %d bytes per frame, got %d", tt.expected, got)
			}
		})
	}
}
