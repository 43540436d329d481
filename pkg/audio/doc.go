// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Frame and Block types and sample conversion functions
// Package audio provides the fundamental types of the voice stream.
//
// The stream is fixed at 8 kHz mono μ-law:
//   - Frame: one capture cycle of μ-law bytes, the unit of one wire message
//   - Block: the decoded linear samples of one received Frame
//
// Codec math lives in the mulaw subpackage; encode and decode wrap it for
// whole frames, and input/output adapt audio devices.
//
// Example:
//
//	format := audio.StreamFormat()
//	if err := format.Validate(); err != nil {
//	    return err
//	}
//	pcm := audio.SampleToInt16(block[0])
package audio
