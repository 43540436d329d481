//go:build !portaudio

// ABOUTME: Stub PortAudio capture for builds without the portaudio tag
// ABOUTME: Returns an error so callers can fall back to malgo
package input

import "errors"

// ErrPortAudioUnavailable is returned when the binary was built without PortAudio
var ErrPortAudioUnavailable = errors.New("portaudio support not compiled in (build with -tags portaudio)")

// PortAudio capture stub
type PortAudio struct{}

// NewPortAudio creates a new PortAudio capture stub
func NewPortAudio() Capture {
	return &PortAudio{}
}

// Open always fails in this build
func (p *PortAudio) Open(sampleRate, channels, blockSize int) error {
	return ErrPortAudioUnavailable
}

// Start always fails in this build
func (p *PortAudio) Start(fn BlockFunc) error {
	return ErrPortAudioUnavailable
}

// Close is a no-op
func (p *PortAudio) Close() error {
	return nil
}
