// ABOUTME: Audio decoder package for the playback path
// ABOUTME: Provides the μ-law frame decoder
// Package decode turns received μ-law frames into playback blocks.
//
// Every byte is a valid μ-law code, so decoding never fails.
//
// Example:
//
//	block := decode.DecodeFrame(frame)
//	scheduler.Enqueue(block)
package decode
