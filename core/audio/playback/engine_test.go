package playback

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/koscakluka/ema-chat/core/audio"
)

type fakeDecoder struct{}

type fakeStream struct{ io.Reader }

func (fakeStream) EncodingInfo() audio.EncodingInfo { return audio.GetDefaultEncodingInfo() }

func (fakeDecoder) Decode(r io.Reader) (audio.PCMStream, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, []byte("ID3")) {
		return nil, errors.New("unrecognised format")
	}
	return fakeStream{Reader: bytes.NewReader(data)}, nil
}

type fakeOutput struct {
	mu      sync.Mutex
	opens   int
	closes  int
	openErr error

	// hold keeps playback running until closed.
	hold    chan struct{}
	started chan struct{}
}

func (o *fakeOutput) Open(_ audio.EncodingInfo, source io.Reader) (audio.Playback, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.openErr != nil {
		return nil, o.openErr
	}
	o.opens++
	return &fakePlayback{output: o, source: source}, nil
}

func (o *fakeOutput) counts() (int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opens, o.closes
}

type fakePlayback struct {
	output *fakeOutput
	source io.Reader
	closed bool
}

func (p *fakePlayback) Start() error {
	if p.output.started != nil {
		close(p.output.started)
	}
	return nil
}

func (p *fakePlayback) IsPlaying() bool {
	if p.output.hold != nil {
		select {
		case <-p.output.hold:
		default:
			return true
		}
	}

	buf := make([]byte, 2)
	_, err := p.source.Read(buf)
	return err == nil
}

func (p *fakePlayback) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	p.output.mu.Lock()
	defer p.output.mu.Unlock()
	p.output.closes++
	return nil
}

func newArtifact(t *testing.T, content string) audio.Artifact {
	t.Helper()

	store := audio.NewStore(afero.NewMemMapFs(), "/artifacts")
	writer, err := store.Create("speech-*.mp3", "audio/mpeg")
	if err != nil {
		t.Fatalf("failed to create artifact: %v", err)
	}
	_, _ = writer.Write([]byte(content))
	artifact, err := writer.Commit()
	if err != nil {
		t.Fatalf("failed to commit artifact: %v", err)
	}
	return artifact
}

func TestPlayRunsToCompletionAndReleasesDevice(t *testing.T) {
	output := &fakeOutput{}
	engine := NewEngine(output, fakeDecoder{}, WithPollInterval(time.Millisecond))

	if err := engine.Play(context.Background(), newArtifact(t, "ID3 some audio frames")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	opens, closes := output.counts()
	if opens != 1 || closes != 1 {
		t.Fatalf("expected one open and one close, got %d opens and %d closes", opens, closes)
	}
}

func TestPlayUnrecognisedFormatFailsToLoad(t *testing.T) {
	output := &fakeOutput{}
	engine := NewEngine(output, fakeDecoder{}, WithPollInterval(time.Millisecond))

	err := engine.Play(context.Background(), newArtifact(t, "not audio"))
	if !errors.Is(err, audio.ErrLoadFailed) {
		t.Fatalf("expected load failure, got %v", err)
	}

	if opens, _ := output.counts(); opens != 0 {
		t.Fatalf("expected device never to be acquired, got %d opens", opens)
	}
}

func TestPlayMissingArtifactFailsToLoad(t *testing.T) {
	artifact := newArtifact(t, "ID3")
	_ = artifact.Remove()

	engine := NewEngine(&fakeOutput{}, fakeDecoder{}, WithPollInterval(time.Millisecond))

	if err := engine.Play(context.Background(), artifact); !errors.Is(err, audio.ErrLoadFailed) {
		t.Fatalf("expected load failure, got %v", err)
	}
}

func TestPlayDeviceFailureIsUnavailable(t *testing.T) {
	output := &fakeOutput{openErr: errors.New("no device")}
	engine := NewEngine(output, fakeDecoder{}, WithPollInterval(time.Millisecond))

	if err := engine.Play(context.Background(), newArtifact(t, "ID3")); !errors.Is(err, audio.ErrDeviceUnavailable) {
		t.Fatalf("expected device unavailable, got %v", err)
	}
}

func TestPlayRejectsConcurrentPlayback(t *testing.T) {
	output := &fakeOutput{hold: make(chan struct{}), started: make(chan struct{})}
	engine := NewEngine(output, fakeDecoder{}, WithPollInterval(time.Millisecond))

	firstDone := make(chan error, 1)
	go func() { firstDone <- engine.Play(context.Background(), newArtifact(t, "ID3 first")) }()
	<-output.started

	if err := engine.Play(context.Background(), newArtifact(t, "ID3 second")); !errors.Is(err, audio.ErrDeviceBusy) {
		t.Fatalf("expected device busy, got %v", err)
	}

	close(output.hold)
	if err := <-firstDone; err != nil {
		t.Fatalf("expected first playback to finish, got %v", err)
	}
	if opens, closes := output.counts(); opens != 1 || closes != 1 {
		t.Fatalf("expected one open and one close, got %d opens and %d closes", opens, closes)
	}
}

func TestPlayCancelledContextInterruptsAndReleases(t *testing.T) {
	output := &fakeOutput{hold: make(chan struct{}), started: make(chan struct{})}
	engine := NewEngine(output, fakeDecoder{}, WithPollInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Play(ctx, newArtifact(t, "ID3")) }()
	<-output.started
	cancel()

	if err := <-done; !errors.Is(err, audio.ErrPlaybackInterrupted) {
		t.Fatalf("expected interrupted playback, got %v", err)
	}
	if _, closes := output.counts(); closes != 1 {
		t.Fatalf("expected device released after interruption, got %d closes", closes)
	}
}
