// ABOUTME: Streaming session controller
// ABOUTME: Wires capture, encoding, transport, decoding and playback for one call
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadawaisg/basic-ai-call/internal/logging"
	"github.com/muhammadawaisg/basic-ai-call/internal/player"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio/decode"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio/encode"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio/input"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio/output"
)

const defaultPoolDepth = 8

// Config holds session configuration
type Config struct {
	// URL is the media stream WebSocket endpoint
	URL string

	// StreamSid identifies the stream; a random UUID is used per start when empty
	StreamSid string

	// BlockSize is the capture period in samples (default: 128)
	BlockSize int

	// MaxQueued bounds the playback queue by dropping the oldest block (0 = unbounded)
	MaxQueued int

	// PoolDepth is the number of capture frame buffers (default: 8)
	PoolDepth int

	// Volume is the initial playback volume (0-100, default: 100)
	Volume int

	// Dial opens the transport (default: DialWebSocket)
	Dial Dialer

	// NewCapture creates the microphone device (default: input.NewMalgo)
	NewCapture func() input.Capture

	// NewOutput creates the playback device (default: output.NewOto)
	NewOutput func() output.Output

	// OnStateChange is called when the session starts or stops
	OnStateChange func(Status)

	// OnError is called when an active session ends because of an error
	OnError func(error)

	// Now supplies media timestamps (default: time.Now)
	Now func() time.Time
}

// Status describes the session
type Status struct {
	Active    bool
	URL       string
	StreamSid string
}

// Stats contains session statistics
type Stats struct {
	Active        bool
	FramesSent    int64
	SendErrors    int64
	MediaReceived int64
	Ignored       int64
	Capture       encode.PoolStats
	Playback      player.SchedulerStats
}

// Session owns the transport, devices and scheduler of one call at a time
type Session struct {
	config Config

	// lifecycle serializes Start calls
	lifecycle sync.Mutex

	mu          sync.Mutex
	run         *run
	cancelStart context.CancelFunc
	last   Stats
	volume int
	muted  bool
}

// run holds everything acquired by one successful Start
type run struct {
	streamSid string
	transport Transport
	capture   input.Capture
	out       output.Output
	pool      *encode.FramePool
	decoder   decode.Decoder
	scheduler *player.Scheduler

	stop     chan struct{}
	stopOnce sync.Once
	// sending is closed when the sender goroutine has exited
	sending chan struct{}
	// released is closed once every resource is closed and the run is detached
	released chan struct{}
	// announced is closed after OnStateChange reported the run as active
	announced chan struct{}
	// done is closed after the inactive state was reported
	done chan struct{}

	sent       atomic.Int64
	sendErrors atomic.Int64
	received   atomic.Int64
}

// New creates a session with the given configuration
func New(config Config) *Session {
	if config.BlockSize <= 0 {
		config.BlockSize = audio.DefaultBlockSize
	}
	if config.PoolDepth <= 0 {
		config.PoolDepth = defaultPoolDepth
	}
	if config.Volume <= 0 || config.Volume > 100 {
		config.Volume = 100
	}
	if config.Dial == nil {
		config.Dial = DialWebSocket
	}
	if config.NewCapture == nil {
		config.NewCapture = input.NewMalgo
	}
	if config.NewOutput == nil {
		config.NewOutput = output.NewOto
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Session{
		config: config,
		volume: config.Volume,
	}
}

// Start connects, opens both devices and begins streaming. It is a no-op
// when the session is already active. On failure everything acquired so
// far is released and the session stays idle. A concurrent Stop cancels
// a Start that has not finished.
func (s *Session) Start(ctx context.Context) error {
	r, err := s.start(ctx)
	if err != nil || r == nil {
		return err
	}

	s.notify(Status{Active: true, URL: s.config.URL, StreamSid: r.streamSid})
	close(r.announced)
	return nil
}

func (s *Session) start(ctx context.Context) (*run, error) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.Active() {
		logging.Infow("session already active, ignoring start")
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancelStart = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.cancelStart = nil
		s.mu.Unlock()
		cancel()
	}()

	streamSid := s.config.StreamSid
	if streamSid == "" {
		streamSid = uuid.NewString()
	}
	format := audio.StreamFormat()
	decoder, err := decode.NewMuLaw(format)
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}

	transport, err := s.config.Dial(ctx, s.config.URL)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", s.config.URL, err)
	}

	out := s.config.NewOutput()
	if err := out.Open(format.SampleRate, format.Channels); err != nil {
		transport.Close()
		return nil, fmt.Errorf("open output device: %w", err)
	}
	s.mu.Lock()
	applyVolume(out, s.volume, s.muted)
	s.mu.Unlock()

	capture := s.config.NewCapture()
	if err := capture.Open(format.SampleRate, format.Channels, s.config.BlockSize); err != nil {
		out.Close()
		transport.Close()
		return nil, fmt.Errorf("open capture device: %w", err)
	}

	r := &run{
		streamSid: streamSid,
		transport: transport,
		capture:   capture,
		out:       out,
		pool:      encode.NewFramePool(s.config.BlockSize, s.config.PoolDepth),
		decoder:   decoder,
		scheduler: player.NewScheduler(out, s.config.MaxQueued),
		stop:      make(chan struct{}),
		sending:   make(chan struct{}),
		released:  make(chan struct{}),
		announced: make(chan struct{}),
		done:      make(chan struct{}),
	}

	release := func() {
		capture.Close()
		out.Close()
		transport.Close()
	}

	if err := transport.SendStart(streamSid); err != nil {
		release()
		return nil, fmt.Errorf("send start: %w", err)
	}

	if err := capture.Start(func(samples []float32) { r.pool.Process(samples) }); err != nil {
		release()
		return nil, fmt.Errorf("start capture: %w", err)
	}

	s.mu.Lock()
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		release()
		return nil, fmt.Errorf("start canceled: %w", err)
	}
	s.run = r
	s.mu.Unlock()

	go s.send(r)
	go s.loop(r)

	logging.Infow("session started", "url", s.config.URL, "stream_sid", streamSid,
		"block_size", s.config.BlockSize, "max_queued", s.config.MaxQueued)
	return r, nil
}

// Stop ends the active session, or cancels a Start in progress, and waits
// for teardown. It is safe to call when idle and from any goroutine,
// including OnStateChange and OnError.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.cancelStart != nil {
		s.cancelStart()
	}
	r := s.run
	s.mu.Unlock()
	if r == nil {
		return
	}

	r.requestStop()
	select {
	case <-r.announced:
		<-r.done
	default:
		// called while Start is still reporting the run; its inactive
		// report waits for that to return
		<-r.released
	}
}

func (r *run) requestStop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// loop runs one session until it is stopped or the transport ends
func (s *Session) loop(r *run) {
	defer close(r.done)

	err := s.process(r)
	s.teardown(r)

	<-r.announced
	s.notify(Status{Active: false, URL: s.config.URL, StreamSid: r.streamSid})
	if err != nil {
		logging.Warnw("session ended by transport", "error", err)
		if s.config.OnError != nil {
			s.config.OnError(err)
		}
	}
}

// send forwards encoded capture frames so a slow write never holds up
// inbound playback
func (s *Session) send(r *run) {
	defer close(r.sending)

	for {
		select {
		case <-r.stop:
			return
		case frame := <-r.pool.Frames():
			if err := r.transport.SendMedia(frame, s.config.Now()); err != nil {
				r.sendErrors.Add(1)
				logging.Debugw("failed to send media", "error", err)
			} else {
				r.sent.Add(1)
			}
			r.pool.Release(frame)
		}
	}
}

// process consumes inbound media and transport close for one run
func (s *Session) process(r *run) error {
	media := r.transport.Media()
	for {
		select {
		case <-r.stop:
			return nil

		case <-r.transport.Done():
			if err := r.transport.Err(); err != nil {
				return fmt.Errorf("connection lost: %w", err)
			}
			logging.Infow("server closed the connection")
			return nil

		case payload := <-media:
			r.received.Add(1)
			block, err := r.decoder.Decode(payload)
			if err != nil {
				logging.Debugw("failed to decode media", "error", err)
				continue
			}
			r.scheduler.Enqueue(block)
		}
	}
}

// teardown releases a run's resources in order and detaches it from the session
func (s *Session) teardown(r *run) {
	r.requestStop()
	if err := r.transport.Close(); err != nil {
		logging.Debugw("transport close error", "error", err)
	}
	<-r.sending
	if err := r.capture.Close(); err != nil {
		logging.Warnw("capture close error", "error", err)
	}
	if err := r.out.Close(); err != nil {
		logging.Warnw("output close error", "error", err)
	}
	r.scheduler.Stop()

	stats := s.statsFor(r)
	stats.Active = false

	s.mu.Lock()
	if s.run == r {
		s.run = nil
	}
	s.last = stats
	s.mu.Unlock()
	close(r.released)

	logging.Infow("session stopped", "stream_sid", r.streamSid,
		"frames_sent", stats.FramesSent, "media_received", stats.MediaReceived,
		"played", stats.Playback.Played, "dropped", stats.Playback.Dropped)
}

func (s *Session) notify(status Status) {
	if s.config.OnStateChange != nil {
		s.config.OnStateChange(status)
	}
}

// Active reports whether a session is running
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run != nil
}

// Status returns the current session status
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := Status{URL: s.config.URL}
	if s.run != nil {
		status.Active = true
		status.StreamSid = s.run.streamSid
	}
	return status
}

// Stats returns statistics of the active run, or of the last one when idle
func (s *Session) Stats() Stats {
	s.mu.Lock()
	r := s.run
	last := s.last
	s.mu.Unlock()

	if r == nil {
		return last
	}
	return s.statsFor(r)
}

func (s *Session) statsFor(r *run) Stats {
	stats := Stats{
		Active:        true,
		FramesSent:    r.sent.Load(),
		SendErrors:    r.sendErrors.Load(),
		MediaReceived: r.received.Load(),
		Capture:       r.pool.Stats(),
		Playback:      r.scheduler.Stats(),
	}
	if c, ok := r.transport.(ignoredCounter); ok {
		stats.Ignored = c.Ignored()
	}
	return stats
}

// SetVolume sets the playback volume (0-100)
func (s *Session) SetVolume(volume int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	s.volume = volume
	if s.run != nil {
		applyVolume(s.run.out, s.volume, s.muted)
	}
}

// SetMuted sets the playback mute state
func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
	if s.run != nil {
		applyVolume(s.run.out, s.volume, s.muted)
	}
}

// Volume returns the playback volume and mute state
func (s *Session) Volume() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume, s.muted
}

func applyVolume(out output.Output, volume int, muted bool) {
	if vc, ok := out.(output.VolumeController); ok {
		vc.SetVolume(volume)
		vc.SetMuted(muted)
	}
}
