// ABOUTME: Audio capture interface definition
// ABOUTME: Common interface for microphone backends delivering sample blocks
package input

import (
	"errors"
)

// ErrNotOpen is returned when starting a capture that is not open
var ErrNotOpen = errors.New("capture not initialized")

// BlockFunc receives one capture period of normalized samples. It runs on
// the device's realtime thread and must not block. samples is nil when the
// device delivered no input for the cycle, and is only valid until return.
type BlockFunc func(samples []float32)

// Capture represents a microphone capture device
type Capture interface {
	// Open initializes the device for mono float capture in periods of
	// blockSize frames
	Open(sampleRate, channels, blockSize int) error

	// Start begins delivering blocks to fn
	Start(fn BlockFunc) error

	// Close stops capture and releases the device
	Close() error
}

// handler holds the active BlockFunc for a device callback
type handler struct {
	fn BlockFunc
}
