// ABOUTME: Malgo-based microphone capture
// ABOUTME: Delivers float32 periods from miniaudio to a block callback
package input

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"

	"github.com/muhammadawaisg/basic-ai-call/internal/logging"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio"
)

// Malgo capture implementation using malgo/miniaudio library
type Malgo struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	channels int
	started  bool

	// scratch is reused across callbacks; only the device thread touches it
	scratch []float32
	handler atomic.Pointer[handler]
}

// NewMalgo creates a new Malgo capture
func NewMalgo() Capture {
	return &Malgo{}
}

// Open initializes the capture device as 32-bit float PCM
func (m *Malgo) Open(sampleRate, channels, blockSize int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		return nil
	}
	if blockSize <= 0 {
		blockSize = audio.DefaultBlockSize
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = uint32(channels)
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(blockSize)
	deviceConfig.Alsa.NoMMap = 1

	m.channels = channels
	m.scratch = make([]float32, blockSize*channels)

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			m.dataCallback(pInputSamples, frameCount)
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	m.malgoCtx = ctx
	m.device = device

	logging.Infow("audio capture initialized", "backend", "malgo",
		"sample_rate", sampleRate, "channels", channels, "block_size", blockSize)
	return nil
}

// Start begins delivering blocks to fn
func (m *Malgo) Start(fn BlockFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return ErrNotOpen
	}
	if m.started {
		return nil
	}

	m.handler.Store(&handler{fn: fn})
	if err := m.device.Start(); err != nil {
		m.handler.Store(nil)
		return fmt.Errorf("failed to start capture device: %w", err)
	}
	m.started = true
	return nil
}

// dataCallback converts the device buffer and hands it on
func (m *Malgo) dataCallback(pInput []byte, frameCount uint32) {
	h := m.handler.Load()
	if h == nil || h.fn == nil {
		return
	}
	if len(pInput) == 0 || frameCount == 0 {
		h.fn(nil)
		return
	}

	want := int(frameCount) * m.channels
	if cap(m.scratch) < want {
		m.scratch = make([]float32, want)
	}
	n := audio.Float32FromBytes(m.scratch[:want], pInput)
	h.fn(m.scratch[:n])
}

// Close stops capture and releases the device
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handler.Store(nil)
	if m.device != nil {
		if m.started {
			if err := m.device.Stop(); err != nil {
				logging.Warnw("capture device stop error", "error", err)
			}
		}
		m.device.Uninit()
		m.device = nil
	}
	m.started = false

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			logging.Warnw("malgo context uninit error", "error", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}
