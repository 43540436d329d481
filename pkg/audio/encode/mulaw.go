// ABOUTME: μ-law frame encoder
// ABOUTME: Encodes normalized sample blocks to one μ-law byte per sample
package encode

import (
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio/mulaw"
)

// MuLawEncoder encodes blocks to μ-law frames
type MuLawEncoder struct{}

// NewMuLaw creates a new μ-law encoder
func NewMuLaw(format audio.Format) (Encoder, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	return &MuLawEncoder{}, nil
}

// Encode converts samples to a freshly allocated frame
func (e *MuLawEncoder) Encode(samples []float32) ([]byte, error) {
	frame := make([]byte, len(samples))
	EncodeInto(frame, samples)
	return frame, nil
}

// Close releases resources
func (e *MuLawEncoder) Close() error {
	return nil
}

// EncodeInto encodes samples into dst in index order without allocating and
// returns the number of bytes written, min(len(dst), len(samples)).
func EncodeInto(dst []byte, samples []float32) int {
	n := len(samples)
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = mulaw.Encode(samples[i])
	}
	return n
}
