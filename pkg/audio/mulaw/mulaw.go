// ABOUTME: G.711 μ-law companding for single samples
// ABOUTME: Converts normalized linear samples to 8-bit μ-law codes and back
package mulaw

import "math"

const (
	// Bias is added to the magnitude before the segment search
	Bias = 0x84

	// Clip caps the magnitude before biasing
	Clip = 32635

	// Silence is the code for a zero sample
	Silence = 0xFF

	// encodeScale maps [-1, 1] onto the integer domain
	encodeScale = 32767

	// decodeScale maps the integer domain back onto [-1, 1]
	decodeScale = 32768
)

var decodeTable [256]float32

func init() {
	for i := range decodeTable {
		decodeTable[i] = float32(DecodeInt16(byte(i))) / decodeScale
	}
}

// Encode converts one normalized sample to a μ-law code. Input outside
// [-1, 1] saturates; NaN encodes as silence.
func Encode(sample float32) byte {
	v := float64(sample) * encodeScale
	switch {
	case v != v:
		v = 0
	case v > encodeScale:
		v = encodeScale
	case v < -encodeScale:
		v = -encodeScale
	}
	return encodeMagnitude(int(math.Round(v)))
}

// EncodeInt16 converts one 16-bit PCM sample to a μ-law code
func EncodeInt16(sample int16) byte {
	return encodeMagnitude(int(sample))
}

func encodeMagnitude(magnitude int) byte {
	sign := 0
	if magnitude < 0 {
		sign = 0x80
		magnitude = -magnitude
	}
	if magnitude > Clip {
		magnitude = Clip
	}
	magnitude += Bias

	exponent := 7
	for mask := 0x4000; magnitude&mask == 0 && exponent > 0; mask >>= 1 {
		exponent--
	}

	mantissa := (magnitude >> (exponent + 3)) & 0x0F
	return ^byte(sign | exponent<<4 | mantissa)
}

// Decode converts one μ-law code to a normalized sample
func Decode(code byte) float32 {
	return decodeTable[code]
}

// DecodeInt16 converts one μ-law code to 16-bit PCM
func DecodeInt16(code byte) int16 {
	code = ^code
	sign := code & 0x80
	exponent := (code >> 4) & 0x07
	mantissa := code & 0x0F

	magnitude := ((int(mantissa) << 3) + Bias) << exponent
	if sign != 0 {
		return int16(Bias - magnitude)
	}
	return int16(magnitude - Bias)
}
