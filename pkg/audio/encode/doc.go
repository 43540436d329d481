// ABOUTME: Audio encoder package for the capture path
// ABOUTME: Provides the μ-law frame encoder and the realtime frame pool
// Package encode turns captured sample blocks into μ-law frames.
//
// MuLawEncoder encodes one block into one frame. FramePool runs the encoder
// on the capture callback without mutexes or blocking channel operations and
// hands finished frames to a regular goroutine.
//
// Example:
//
//	pool := encode.NewFramePool(audio.DefaultBlockSize, 32)
//	capture.Start(pool.Process)
//	for frame := range pool.Frames() {
//	    send(frame)
//	    pool.Release(frame)
//	}
package encode
