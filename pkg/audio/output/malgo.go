// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Uses miniaudio via malgo with a callback that drains one block at a time
package output

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/muhammadawaisg/basic-ai-call/internal/logging"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio"
)

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	malgoCtx   *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate int
	channels   int
	vol        volumeState
	ready      bool

	// block currently being rendered by the device callback
	current []int16
	pos     int
	done    func()
	mu      sync.Mutex
}

// NewMalgo creates a new Malgo output
func NewMalgo() Output {
	return &Malgo{
		vol: newVolumeState(),
	}
}

// Open initializes the playback device as signed 16-bit PCM
func (m *Malgo) Open(sampleRate, channels int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil && m.sampleRate == sampleRate && m.channels == channels {
		logging.Debugw("audio output already initialized with same format, reusing device")
		return nil
	}

	if m.device != nil {
		logging.Infow("format change detected, reinitializing device",
			"old_rate", m.sampleRate, "old_channels", m.channels,
			"new_rate", sampleRate, "new_channels", channels)
		m.closeDevice()
	}

	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize malgo context: %w", err)
		}
		m.malgoCtx = ctx
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(channels)
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			m.dataCallback(pOutputSample, frameCount)
		},
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start device: %w", err)
	}

	m.device = device
	m.sampleRate = sampleRate
	m.channels = channels
	m.ready = true

	logging.Infow("audio output initialized", "backend", "malgo", "sample_rate", sampleRate, "channels", channels)
	return nil
}

// Play hands block to the device callback
func (m *Malgo) Play(block audio.Block, done func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ready {
		return ErrNotOpen
	}
	if m.current != nil {
		return ErrBusy
	}

	if len(block) == 0 {
		if done != nil {
			go done()
		}
		return nil
	}

	m.current = applyVolume(block, m.vol.volume, m.vol.muted)
	m.pos = 0
	m.done = done
	return nil
}

// dataCallback is called by malgo to fill the audio output buffer
func (m *Malgo) dataCallback(pOutput []byte, frameCount uint32) {
	m.mu.Lock()
	total := int(frameCount) * m.channels
	written := 0
	if m.current != nil {
		written = copyInt16(pOutput, m.current[m.pos:])
		m.pos += written
	}

	var finished func()
	if m.current != nil && m.pos >= len(m.current) {
		finished = m.done
		if finished == nil {
			finished = func() {}
		}
		m.current = nil
		m.done = nil
	}
	m.mu.Unlock()

	// zero-fill on underrun
	for i := written * 2; i < total*2 && i < len(pOutput); i++ {
		pOutput[i] = 0
	}

	if finished != nil {
		go finished()
	}
}

// copyInt16 writes as many samples as fit into dst as little-endian PCM
func copyInt16(dst []byte, src []int16) int {
	n := len(dst) / 2
	if len(src) < n {
		n = len(src)
	}
	audio.PutInt16LE(dst[:n*2], src[:n])
	return n
}

// Close releases output resources. A block still rendering is abandoned and
// its completion is never reported.
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeDevice()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			logging.Warnw("malgo context uninit error", "error", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}

// closeDevice stops and uninitializes the device (must hold m.mu)
func (m *Malgo) closeDevice() {
	if m.device == nil {
		return
	}
	m.ready = false
	m.current = nil
	m.done = nil

	device := m.device
	m.device = nil

	// Stop waits for the callback to return, which needs m.mu
	m.mu.Unlock()
	if err := device.Stop(); err != nil {
		logging.Warnw("device stop error", "error", err)
	}
	device.Uninit()
	m.mu.Lock()
}

// SetVolume sets the volume (0-100)
func (m *Malgo) SetVolume(volume int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vol.volume = clampVolume(volume)
	logging.Infow("volume set", "volume", m.vol.volume)
}

// SetMuted sets mute state
func (m *Malgo) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vol.muted = muted
	logging.Infow("mute set", "muted", muted)
}

// GetVolume returns current volume
func (m *Malgo) GetVolume() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vol.volume
}

// IsMuted returns mute state
func (m *Malgo) IsMuted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vol.muted
}
