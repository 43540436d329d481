// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for block-at-a-time playback backends
package output

import (
	"errors"

	"github.com/muhammadawaisg/basic-ai-call/pkg/audio"
)

// ErrNotOpen is returned when playing on an output that is not open
var ErrNotOpen = errors.New("output not initialized")

// ErrBusy is returned when a block is played while another is still playing
var ErrBusy = errors.New("output busy")

// Output represents an audio output device that renders one block at a time
type Output interface {
	// Open initializes the output device
	Open(sampleRate, channels int) error

	// Play starts rendering block and returns without waiting. done is
	// called exactly once, from another goroutine, after the last sample
	// has been rendered. done is not called if the output closes first.
	Play(block audio.Block, done func()) error

	// Close releases output resources
	Close() error
}

// VolumeController is implemented by outputs with software volume
type VolumeController interface {
	SetVolume(volume int)
	SetMuted(muted bool)
}

// volumeState holds software volume shared by the backends
type volumeState struct {
	volume int
	muted  bool
}

func newVolumeState() volumeState {
	return volumeState{volume: 100}
}

func clampVolume(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}

// applyVolume scales a block into 16-bit PCM with clipping protection
func applyVolume(block audio.Block, volume int, muted bool) []int16 {
	multiplier := getVolumeMultiplier(volume, muted)

	result := make([]int16, len(block))
	for i, sample := range block {
		result[i] = audio.SampleToInt16(sample * float32(multiplier))
	}
	return result
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
