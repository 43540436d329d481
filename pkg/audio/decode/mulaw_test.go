// ABOUTME: Tests for the μ-law frame decoder
// ABOUTME: Tests format validation, ordering and total decoding
package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadawaisg/basic-ai-call/pkg/audio"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio/encode"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio/mulaw"
)

func TestNewMuLaw(t *testing.T) {
	decoder, err := NewMuLaw(audio.StreamFormat())
	require.NoError(t, err)
	require.NotNil(t, decoder)
	assert.NoError(t, decoder.Close())
}

func TestNewMuLaw_InvalidCodec(t *testing.T) {
	decoder, err := NewMuLaw(audio.Format{Codec: "pcm", SampleRate: 8000, Channels: 1})
	require.Error(t, err)
	assert.Nil(t, decoder)
	assert.Equal(t, "invalid codec: pcm", err.Error())
}

func TestDecodeEveryCode(t *testing.T) {
	decoder, err := NewMuLaw(audio.StreamFormat())
	require.NoError(t, err)

	frame := make([]byte, 256)
	for i := range frame {
		frame[i] = byte(i)
	}

	block, err := decoder.Decode(frame)
	require.NoError(t, err)
	require.Len(t, block, len(frame))

	for i, s := range block {
		assert.Equal(t, mulaw.Decode(byte(i)), s, "code %#02x", i)
		assert.LessOrEqual(t, s, float32(1))
		assert.GreaterOrEqual(t, s, float32(-1))
	}
}

func TestDecodeEmptyFrame(t *testing.T) {
	assert.Empty(t, DecodeFrame(nil))
}

func TestEncodeDecodeFrame(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 0.9, -0.9}
	frame := make(audio.Frame, len(samples))
	encode.EncodeInto(frame, samples)

	block := DecodeFrame(frame)
	require.Len(t, block, len(samples))
	for i, s := range samples {
		assert.InDelta(t, s, block[i], 0.02, "index %d", i)
	}
}
