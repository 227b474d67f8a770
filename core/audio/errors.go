package audio

import "errors"

var (
	// ErrLoadFailed is returned when an artifact is missing, unreadable or
	// not in a format any decoder recognises.
	ErrLoadFailed = errors.New("audio artifact could not be loaded")
	// ErrDeviceUnavailable is returned when the output device cannot be
	// acquired or started.
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	// ErrDeviceBusy is returned when another playback already holds the
	// output device.
	ErrDeviceBusy = errors.New("audio device busy")
	// ErrPlaybackInterrupted is returned when playback stops before the end
	// of the artifact because its context was cancelled.
	ErrPlaybackInterrupted = errors.New("audio playback interrupted")
	// ErrStorage covers local file I/O on artifacts.
	ErrStorage = errors.New("audio artifact storage failed")
)
