package audio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// Artifact is a transient audio file produced by synthesis and consumed
// once by playback. Whoever holds the artifact owns it and must Remove it.
type Artifact struct {
	Path        string
	ContentType string

	fs afero.Fs
}

func (a Artifact) IsZero() bool { return a.Path == "" || a.fs == nil }

func (a Artifact) Open() (io.ReadCloser, error) {
	if a.IsZero() {
		return nil, fmt.Errorf("%w: empty artifact handle", ErrLoadFailed)
	}

	file, err := a.fs.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return file, nil
}

func (a Artifact) Exists() bool {
	if a.IsZero() {
		return false
	}

	exists, err := afero.Exists(a.fs, a.Path)
	return err == nil && exists
}

// Remove deletes the artifact from storage. Removing an artifact that no
// longer exists is not an error.
func (a Artifact) Remove() error {
	if a.IsZero() {
		return nil
	}

	if err := a.fs.Remove(a.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: removing %s: %w", ErrStorage, a.Path, err)
	}
	return nil
}

// Store creates artifacts in a single directory of a filesystem.
type Store struct {
	fs  afero.Fs
	dir string
}

func NewStore(fs afero.Fs, dir string) *Store {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Store{fs: fs, dir: dir}
}

// NewOSStore stores artifacts on the local disk under dir, or the system
// temp directory when dir is empty.
func NewOSStore(dir string) *Store {
	return NewStore(afero.NewOsFs(), dir)
}

func (s *Store) Dir() string { return s.dir }

// ArtifactWriter streams data into a new artifact. Commit hands out the
// finished artifact; Discard drops the partial file.
type ArtifactWriter struct {
	file     afero.File
	artifact Artifact
	done     bool
}

// Create opens a new uniquely named artifact file, e.g. pattern
// "speech-*.mp3".
func (s *Store) Create(pattern, contentType string) (*ArtifactWriter, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", ErrStorage, s.dir, err)
	}

	file, err := afero.TempFile(s.fs, s.dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: creating artifact: %w", ErrStorage, err)
	}

	return &ArtifactWriter{
		file:     file,
		artifact: Artifact{Path: file.Name(), ContentType: contentType, fs: s.fs},
	}, nil
}

func (w *ArtifactWriter) Write(p []byte) (int, error) {
	n, err := w.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: writing artifact: %w", ErrStorage, err)
	}
	return n, nil
}

// Commit closes the file and returns the artifact. If closing fails the
// partial file is removed.
func (w *ArtifactWriter) Commit() (Artifact, error) {
	if w.done {
		return Artifact{}, fmt.Errorf("%w: artifact writer already finished", ErrStorage)
	}
	w.done = true

	if err := w.file.Close(); err != nil {
		_ = w.artifact.Remove()
		return Artifact{}, fmt.Errorf("%w: closing artifact: %w", ErrStorage, err)
	}
	return w.artifact, nil
}

// Discard closes and removes the partially written file. It is safe to call
// after Commit, in which case it does nothing.
func (w *ArtifactWriter) Discard() error {
	if w.done {
		return nil
	}
	w.done = true

	_ = w.file.Close()
	return w.artifact.Remove()
}
