// ABOUTME: Tests for μ-law companding
// ABOUTME: Checks bit layout, saturation, symmetry and the G.711 reference table
package mulaw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zaf/g711"
)

func TestSilence(t *testing.T) {
	assert.Equal(t, byte(Silence), Encode(0))
	assert.Equal(t, byte(0xFF), EncodeInt16(0))
	assert.Equal(t, float32(0), Decode(0xFF))
	assert.Equal(t, float32(0), Decode(Encode(0)))
}

func TestEncodeKnownCodes(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected byte
	}{
		{"zero", 0, 0xFF},
		{"smallest step", 8, 0xFE},
		{"minus one step", -8, 0x7E},
		{"segment one", 256, 0xE7},
		{"full scale", 32767, 0x80},
		{"negative full scale", -32767, 0x00},
		{"most negative", -32768, 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EncodeInt16(tt.input), "EncodeInt16(%d)", tt.input)
		})
	}
}

func TestDecodeKnownCodes(t *testing.T) {
	tests := []struct {
		code     byte
		expected int16
	}{
		{0xFF, 0},
		{0x7F, 0},
		{0x80, 32124},
		{0x00, -32124},
		{0xFE, 8},
		{0xE7, 260},
		{0xEF, 132},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DecodeInt16(tt.code), "DecodeInt16(%#02x)", tt.code)
	}
}

func TestFullScaleRoundTrip(t *testing.T) {
	got := Decode(Encode(1.0))
	assert.InDelta(t, 32124.0/32768.0, got, 1e-6)
	assert.GreaterOrEqual(t, got, float32(0.97))

	assert.InDelta(t, -32124.0/32768.0, Decode(Encode(-1.0)), 1e-6)
}

func TestSaturation(t *testing.T) {
	assert.Equal(t, Encode(1.0), Encode(2.0))
	assert.Equal(t, Encode(-1.0), Encode(-2.0))
	assert.Equal(t, Encode(1.0), Encode(float32(math.Inf(1))))
	assert.Equal(t, Encode(-1.0), Encode(float32(math.Inf(-1))))
	assert.Equal(t, byte(Silence), Encode(float32(math.NaN())))
}

func TestSignSymmetry(t *testing.T) {
	for i := 1; i <= encodeScale; i += 7 {
		s := float32(i) / encodeScale
		pos, neg := Encode(s), Encode(-s)
		if pos^neg != 0x80 {
			t.Fatalf("Encode(%v)=%#02x and Encode(%v)=%#02x differ by more than the sign bit", s, pos, -s, neg)
		}
	}
}

func TestRoundTripTolerance(t *testing.T) {
	// Each segment halves resolution; reconstruction sits mid-step, so the
	// error stays within half a step plus scaling slack.
	for i := -Clip; i <= Clip; i++ {
		s := float32(i) / encodeScale
		code := Encode(s)
		exponent := int((^code >> 4) & 0x07)
		bound := float64(int(1)<<(exponent+2)+2) / decodeScale

		got := Decode(code)
		if diff := math.Abs(float64(got) - float64(s)); diff > bound {
			t.Fatalf("sample %d: decode(encode(%v)) = %v, error %v exceeds %v", i, s, got, diff, bound)
		}
	}
}

func TestExponentMantissaLayout(t *testing.T) {
	for code := 0; code < 256; code++ {
		b := byte(code)
		packed := ^b
		exponent := (packed >> 4) & 0x07
		mantissa := packed & 0x0F

		magnitude := int(DecodeInt16(b))
		if magnitude < 0 {
			magnitude = -magnitude
		}
		expected := ((int(mantissa) << 3) + Bias) << exponent
		assert.Equal(t, expected-Bias, magnitude, "code %#02x", b)
	}
}

func TestMatchesG711Reference(t *testing.T) {
	for pcm := -32767; pcm <= 32767; pcm++ {
		// the reference negates with one's complement, so -n there is -n-1 here
		ref := pcm
		if pcm < 0 {
			ref = pcm - 1
		}
		want := g711.EncodeUlawFrame(int16(ref))
		if got := EncodeInt16(int16(pcm)); got != want {
			t.Fatalf("EncodeInt16(%d) = %#02x, reference(%d) %#02x", pcm, got, ref, want)
		}
	}

	for pcm := 1; pcm <= 32767; pcm++ {
		pos := g711.EncodeUlawFrame(int16(pcm))
		if neg := EncodeInt16(int16(-pcm)); pos^neg != 0x80 {
			t.Fatalf("EncodeInt16(%d) = %#02x, reference(%d) = %#02x", -pcm, neg, pcm, pos)
		}
	}

	for code := 0; code < 256; code++ {
		want := g711.DecodeUlawFrame(uint8(code))
		if got := DecodeInt16(byte(code)); got != want {
			t.Fatalf("DecodeInt16(%#02x) = %d, reference %d", code, got, want)
		}
	}
}

func TestEncodeIdempotentOnDecodedValues(t *testing.T) {
	for code := 0; code < 256; code++ {
		b := byte(code)
		if b == 0x7F {
			// negative zero folds onto positive zero
			continue
		}
		assert.Equal(t, b, EncodeInt16(DecodeInt16(b)), "code %#02x", b)
	}
}

func BenchmarkEncode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Encode(float32(i%65536-32768) / 32768)
	}
}

func BenchmarkDecode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Decode(byte(i))
	}
}
