// ABOUTME: Audio type definitions
// ABOUTME: Defines the stream format, μ-law frames, playback blocks and sample conversions
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

const (
	// CodecMuLaw is the only codec carried on the wire
	CodecMuLaw = "mulaw"

	// SampleRate is the fixed stream rate in Hz
	SampleRate = 8000

	// Channels is the fixed channel count (mono)
	Channels = 1

	// BitDepth of one encoded sample on the wire
	BitDepth = 8

	// DefaultBlockSize is the number of samples per capture cycle
	DefaultBlockSize = 128
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// StreamFormat returns the format of every frame sent or received
func StreamFormat() Format {
	return Format{
		Codec:      CodecMuLaw,
		SampleRate: SampleRate,
		Channels:   Channels,
		BitDepth:   BitDepth,
	}
}

// Validate checks that f matches the stream format
func (f Format) Validate() error {
	if f.Codec != CodecMuLaw {
		return fmt.Errorf("invalid codec: %s", f.Codec)
	}
	if f.SampleRate != SampleRate {
		return fmt.Errorf("unsupported sample rate: %d (supported: %d)", f.SampleRate, SampleRate)
	}
	if f.Channels != Channels {
		return fmt.Errorf("unsupported channel count: %d (supported: %d)", f.Channels, Channels)
	}
	return nil
}

// Frame is one capture cycle of μ-law bytes, one byte per sample
type Frame []byte

// Block is one decoded frame of linear samples in [-1, 1], queued for playback
type Block []float32

// Duration returns the play-out time of the block at SampleRate
func (b Block) Duration() time.Duration {
	return time.Duration(len(b)) * time.Second / SampleRate
}

// SampleToInt16 converts a normalized sample to 16-bit PCM, saturating out-of-range input
func SampleToInt16(sample float32) int16 {
	v := float64(sample) * 32768
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	if v != v {
		return 0
	}
	return int16(v)
}

// SampleFromInt16 converts a 16-bit PCM sample to the normalized range
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / 32768
}

// Float32FromBytes decodes little-endian IEEE-754 samples from b into dst
// and returns the number of samples written.
func Float32FromBytes(dst []float32, b []byte) int {
	n := len(b) / 4
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return n
}

// PutInt16LE writes samples as little-endian 16-bit PCM into dst, which must
// hold at least 2*len(samples) bytes.
func PutInt16LE(dst []byte, samples []int16) {
	for i, s := range samples {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(s))
	}
}
