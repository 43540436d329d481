// ABOUTME: Realtime frame hand-off from the capture callback
// ABOUTME: Encodes blocks into preallocated buffers with non-blocking channel hand-off
package encode

import (
	"sync/atomic"

	"github.com/muhammadawaisg/basic-ai-call/pkg/audio"
)

// PoolStats counts what happened to capture cycles
type PoolStats struct {
	Encoded int64 // frames handed to Frames()
	Skipped int64 // cycles that delivered no input
	Dropped int64 // frames lost because no buffer or slot was free
}

// FramePool owns a fixed set of frame buffers shared between the capture
// callback and the sender. Process must be the only producer.
type FramePool struct {
	free  chan []byte
	ready chan audio.Frame

	encoded atomic.Int64
	skipped atomic.Int64
	dropped atomic.Int64
}

// NewFramePool preallocates depth buffers of blockSize bytes
func NewFramePool(blockSize, depth int) *FramePool {
	if blockSize <= 0 {
		blockSize = audio.DefaultBlockSize
	}
	if depth <= 0 {
		depth = 1
	}

	p := &FramePool{
		free:  make(chan []byte, depth),
		ready: make(chan audio.Frame, depth),
	}
	for i := 0; i < depth; i++ {
		p.free <- make([]byte, blockSize)
	}
	return p
}

// Process encodes one capture block into a pooled frame and publishes it.
// It never blocks. A nil or empty block emits nothing. Samples are not
// retained after return.
func (p *FramePool) Process(samples []float32) bool {
	if len(samples) == 0 {
		p.skipped.Add(1)
		return false
	}

	var buf []byte
	select {
	case buf = <-p.free:
	default:
		p.dropped.Add(1)
		return false
	}

	if cap(buf) < len(samples) {
		// device delivered a larger period than configured; the new
		// buffer replaces the small one for good
		buf = make([]byte, len(samples))
	}
	frame := audio.Frame(buf[:len(samples)])
	EncodeInto(frame, samples)

	select {
	case p.ready <- frame:
		p.encoded.Add(1)
		return true
	default:
		p.free <- buf
		p.dropped.Add(1)
		return false
	}
}

// Frames returns the channel of encoded frames in capture order
func (p *FramePool) Frames() <-chan audio.Frame {
	return p.ready
}

// Release returns a frame obtained from Frames once it has been sent
func (p *FramePool) Release(frame audio.Frame) {
	select {
	case p.free <- frame[:cap(frame)]:
	default:
	}
}

// Stats returns the pool counters
func (p *FramePool) Stats() PoolStats {
	return PoolStats{
		Encoded: p.encoded.Load(),
		Skipped: p.skipped.Load(),
		Dropped: p.dropped.Load(),
	}
}
