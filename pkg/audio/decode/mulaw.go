// ABOUTME: μ-law frame decoder
// ABOUTME: Decodes received μ-law frames to normalized playback blocks
package decode

import (
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio/mulaw"
)

// MuLawDecoder decodes μ-law frames
type MuLawDecoder struct{}

// NewMuLaw creates a new μ-law decoder
func NewMuLaw(format audio.Format) (Decoder, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	return &MuLawDecoder{}, nil
}

// Decode converts a frame to samples; it never fails
func (d *MuLawDecoder) Decode(data []byte) ([]float32, error) {
	return DecodeFrame(data), nil
}

// Close releases resources
func (d *MuLawDecoder) Close() error {
	return nil
}

// DecodeFrame converts one frame into a block of the same length
func DecodeFrame(frame audio.Frame) audio.Block {
	block := make(audio.Block, len(frame))
	for i, code := range frame {
		block[i] = mulaw.Decode(code)
	}
	return block
}
