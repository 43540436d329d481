//go:build portaudio

// ABOUTME: PortAudio microphone capture
// ABOUTME: Cross-platform capture using a PortAudio callback stream
package input

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/muhammadawaisg/basic-ai-call/internal/logging"
)

// PortAudio capture implementation
type PortAudio struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	fn     BlockFunc
}

// NewPortAudio creates a new PortAudio capture
func NewPortAudio() Capture {
	return &PortAudio{}
}

// Open initializes PortAudio and opens the default input stream
func (p *PortAudio) Open(sampleRate, channels, blockSize int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream != nil {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(sampleRate), blockSize, func(in []float32) {
		if fn := p.fn; fn != nil {
			if len(in) == 0 {
				fn(nil)
				return
			}
			fn(in)
		}
	})
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open stream: %w", err)
	}

	p.stream = stream
	logging.Infow("audio capture initialized", "backend", "portaudio",
		"sample_rate", sampleRate, "channels", channels, "block_size", blockSize)
	return nil
}

// Start begins delivering blocks to fn
func (p *PortAudio) Start(fn BlockFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return ErrNotOpen
	}
	p.fn = fn
	return p.stream.Start()
}

// Close releases resources
func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return nil
	}
	if err := p.stream.Stop(); err != nil {
		logging.Warnw("portaudio stream stop error", "error", err)
	}
	if err := p.stream.Close(); err != nil {
		return err
	}
	p.stream = nil
	p.fn = nil
	return portaudio.Terminate()
}
