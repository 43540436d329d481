// ABOUTME: Tests for audio types
// ABOUTME: Tests format validation and sample conversion functions
package audio

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamFormatValidates(t *testing.T) {
	require.NoError(t, StreamFormat().Validate())
}

func TestFormatValidate(t *testing.T) {
	tests := []struct {
		name        string
		format      Format
		errContains string
	}{
		{"wrong codec", Format{Codec: "pcm", SampleRate: 8000, Channels: 1}, "invalid codec: pcm"},
		{"wrong rate", Format{Codec: CodecMuLaw, SampleRate: 16000, Channels: 1}, "unsupported sample rate: 16000"},
		{"stereo", Format{Codec: CodecMuLaw, SampleRate: 8000, Channels: 2}, "unsupported channel count: 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestBlockDuration(t *testing.T) {
	assert.Equal(t, 16*time.Millisecond, make(Block, DefaultBlockSize).Duration())
	assert.Equal(t, time.Second, make(Block, SampleRate).Duration())
	assert.Zero(t, Block(nil).Duration())
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected int16
	}{
		{"zero", 0, 0},
		{"half", 0.5, 16384},
		{"negative half", -0.5, -16384},
		{"full scale", 1.0, 32767},
		{"negative full scale", -1.0, -32768},
		{"over range", 3.0, 32767},
		{"under range", -3.0, -32768},
		{"nan", float32(math.NaN()), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SampleToInt16(tt.input))
		})
	}
}

func TestSampleFromInt16(t *testing.T) {
	assert.Equal(t, float32(0), SampleFromInt16(0))
	assert.Equal(t, float32(-1), SampleFromInt16(-32768))
	assert.InDelta(t, 0.5, SampleFromInt16(16384), 1e-6)
}

func TestFloat32FromBytes(t *testing.T) {
	raw := make([]byte, 12)
	binary.LittleEndian.PutUint32(raw[0:], math.Float32bits(0.25))
	binary.LittleEndian.PutUint32(raw[4:], math.Float32bits(-1))
	binary.LittleEndian.PutUint32(raw[8:], math.Float32bits(0.75))

	dst := make([]float32, 2)
	n := Float32FromBytes(dst, raw)

	assert.Equal(t, 2, n, "dst bounds the number of decoded samples")
	assert.Equal(t, []float32{0.25, -1}, dst)
}

func TestPutInt16LE(t *testing.T) {
	dst := make([]byte, 4)
	PutInt16LE(dst, []int16{256, -2})
	assert.Equal(t, []byte{0x00, 0x01, 0xFE, 0xFF}, dst)
}
