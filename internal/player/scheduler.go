// ABOUTME: Completion-driven playback scheduler
// ABOUTME: Plays decoded blocks back to back in strict arrival order
package player

import (
	"sync"

	"github.com/muhammadawaisg/basic-ai-call/internal/logging"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio"
)

// State is the scheduler's playback state
type State int

const (
	// Idle means nothing is playing and the queue is empty
	Idle State = iota
	// Playing means exactly one block is on the device
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	default:
		return "unknown"
	}
}

// Device plays one block and calls done once it has finished, from any
// goroutine. output.Output satisfies it.
type Device interface {
	Play(block audio.Block, done func()) error
}

// Scheduler manages playback order
type Scheduler struct {
	device    Device
	maxQueued int

	mu      sync.Mutex
	queue   []audio.Block
	state   State
	seq     uint64
	stopped bool

	stats SchedulerStats
}

// SchedulerStats tracks scheduler metrics
type SchedulerStats struct {
	Received int64
	Played   int64
	Dropped  int64
	Queued   int
}

// NewScheduler creates a playback scheduler. maxQueued > 0 bounds the
// pending queue by dropping the oldest block; zero leaves it unbounded.
func NewScheduler(device Device, maxQueued int) *Scheduler {
	return &Scheduler{
		device:    device,
		maxQueued: maxQueued,
	}
}

// Enqueue appends block to the queue and starts it if nothing is playing
func (s *Scheduler) Enqueue(block audio.Block) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}

	s.stats.Received++
	s.queue = append(s.queue, block)
	if s.maxQueued > 0 && len(s.queue) > s.maxQueued {
		over := len(s.queue) - s.maxQueued
		s.queue = append(s.queue[:0], s.queue[over:]...)
		s.stats.Dropped += int64(over)
		logging.Debugw("playback queue full, dropped oldest", "dropped", over)
	}

	if s.state == Playing {
		s.mu.Unlock()
		return
	}
	// claim the device before unlocking so concurrent enqueues wait their turn
	s.state = Playing
	s.mu.Unlock()

	s.playNext()
}

// playNext moves the head of the queue onto the device, or goes Idle. The
// caller must own the Playing state.
func (s *Scheduler) playNext() {
	for {
		s.mu.Lock()
		if s.stopped || len(s.queue) == 0 {
			s.state = Idle
			s.mu.Unlock()
			return
		}

		block := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.state = Playing
		s.seq++
		seq := s.seq
		s.mu.Unlock()

		var once sync.Once
		err := s.device.Play(block, func() {
			once.Do(func() { s.complete(seq) })
		})
		if err == nil {
			return
		}

		s.mu.Lock()
		current := s.seq == seq && !s.stopped
		if current {
			s.stats.Dropped++
		}
		s.mu.Unlock()

		logging.Warnw("failed to play block", "error", err, "samples", len(block))
		if !current {
			return
		}
	}
}

// complete handles the device's end-of-block notification
func (s *Scheduler) complete(seq uint64) {
	s.mu.Lock()
	if s.stopped || seq != s.seq || s.state != Playing {
		s.mu.Unlock()
		return
	}
	s.stats.Played++
	s.mu.Unlock()

	s.playNext()
}

// Stop drains the queue and ignores any completion still in flight. The
// scheduler accepts no further blocks.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	s.stats.Dropped += int64(len(s.queue))
	s.queue = nil
	s.state = Idle
	s.seq++
}

// Len returns the number of blocks waiting behind the current one
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// State returns the playback state
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stats returns scheduler statistics
func (s *Scheduler) Stats() SchedulerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.stats
	stats.Queued = len(s.queue)
	return stats
}
