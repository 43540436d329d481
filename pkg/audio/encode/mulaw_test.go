// ABOUTME: Unit tests for the μ-law frame encoder and frame pool
// ABOUTME: Tests format validation, ordering, skipping and drop accounting
package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadawaisg/basic-ai-call/pkg/audio"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio/mulaw"
)

func TestNewMuLaw(t *testing.T) {
	tests := []struct {
		name        string
		format      audio.Format
		wantErr     bool
		errContains string
	}{
		{
			name:   "stream format",
			format: audio.StreamFormat(),
		},
		{
			name:        "invalid codec",
			format:      audio.Format{Codec: "opus", SampleRate: 8000, Channels: 1},
			wantErr:     true,
			errContains: "invalid codec",
		},
		{
			name:        "unsupported sample rate",
			format:      audio.Format{Codec: audio.CodecMuLaw, SampleRate: 48000, Channels: 1},
			wantErr:     true,
			errContains: "unsupported sample rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder, err := NewMuLaw(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, encoder)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, encoder)
			assert.NoError(t, encoder.Close())
		})
	}
}

func TestEncodePreservesOrderAndLength(t *testing.T) {
	encoder, err := NewMuLaw(audio.StreamFormat())
	require.NoError(t, err)

	samples := []float32{0, 0.5, -0.5, 1, -1, 0.001}
	frame, err := encoder.Encode(samples)
	require.NoError(t, err)
	require.Len(t, frame, len(samples))

	for i, s := range samples {
		assert.Equal(t, mulaw.Encode(s), frame[i], "index %d", i)
	}
}

func TestEncodeEmptyBlock(t *testing.T) {
	encoder, err := NewMuLaw(audio.StreamFormat())
	require.NoError(t, err)

	frame, err := encoder.Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, frame)
}

func TestEncodeInto(t *testing.T) {
	dst := make([]byte, 2)
	n := EncodeInto(dst, []float32{0, 0, 0.5})
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0xFF, 0xFF}, dst)
}

func TestFramePoolEmitsFrames(t *testing.T) {
	pool := NewFramePool(4, 2)

	block := []float32{0, 0.25, -0.25, 0}
	require.True(t, pool.Process(block))

	frame := <-pool.Frames()
	assert.Equal(t, audio.Frame{0xFF, mulaw.Encode(0.25), mulaw.Encode(-0.25), 0xFF}, frame)
	assert.Equal(t, int64(1), pool.Stats().Encoded)

	// Samples are copied out; mutating the block after Process has no effect
	block[1] = 1
	assert.Equal(t, mulaw.Encode(0.25), frame[1])
	pool.Release(frame)
}

func TestFramePoolSkipsMissingInput(t *testing.T) {
	pool := NewFramePool(4, 2)

	assert.False(t, pool.Process(nil))
	assert.False(t, pool.Process([]float32{}))
	assert.Empty(t, pool.Frames())

	// subsequent cycles keep working
	assert.True(t, pool.Process([]float32{0, 0, 0, 0}))
	assert.Len(t, pool.Frames(), 1)

	stats := pool.Stats()
	assert.Equal(t, int64(2), stats.Skipped)
	assert.Equal(t, int64(1), stats.Encoded)
	assert.Zero(t, stats.Dropped)
}

func TestFramePoolDropsWhenExhausted(t *testing.T) {
	pool := NewFramePool(2, 2)
	block := []float32{0.1, 0.2}

	assert.True(t, pool.Process(block))
	assert.True(t, pool.Process(block))
	assert.False(t, pool.Process(block), "no free buffer left")
	assert.Equal(t, int64(1), pool.Stats().Dropped)

	pool.Release(<-pool.Frames())
	assert.True(t, pool.Process(block), "released buffer is reused")
}

func TestFramePoolPreservesCaptureOrder(t *testing.T) {
	pool := NewFramePool(1, 8)
	inputs := []float32{0.1, 0.2, 0.3, 0.4, 0.5}
	for _, s := range inputs {
		require.True(t, pool.Process([]float32{s}))
	}

	for _, s := range inputs {
		frame := <-pool.Frames()
		assert.Equal(t, mulaw.Encode(s), frame[0])
		pool.Release(frame)
	}
}

func TestFramePoolGrowsForLargerPeriods(t *testing.T) {
	pool := NewFramePool(2, 1)
	require.True(t, pool.Process(make([]float32, 5)))

	frame := <-pool.Frames()
	assert.Len(t, frame, 5)
	pool.Release(frame)

	require.True(t, pool.Process(make([]float32, 3)))
	assert.Len(t, <-pool.Frames(), 3)
}

func BenchmarkFramePoolProcess(b *testing.B) {
	pool := NewFramePool(audio.DefaultBlockSize, 4)
	block := make([]float32, audio.DefaultBlockSize)
	for i := range block {
		block[i] = float32(i) / float32(len(block))
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		pool.Process(block)
		pool.Release(<-pool.Frames())
	}
}
