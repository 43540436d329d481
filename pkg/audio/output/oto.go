// ABOUTME: Oto-based audio output implementation
// ABOUTME: Plays each block on its own oto player and reports completion
package output

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/muhammadawaisg/basic-ai-call/internal/logging"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio"
)

// oto allows one context per process, so it is shared by every Oto output
// and suspended rather than destroyed on Close.
var (
	sharedMu       sync.Mutex
	sharedCtx      *oto.Context
	sharedRate     int
	sharedChannels int
)

func acquireContext(sampleRate, channels int) (*oto.Context, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedCtx != nil {
		if sharedRate != sampleRate || sharedChannels != channels {
			return nil, fmt.Errorf("oto context already created for %dHz %dch, cannot reopen at %dHz %dch",
				sharedRate, sharedChannels, sampleRate, channels)
		}
		if err := sharedCtx.Resume(); err != nil {
			return nil, fmt.Errorf("failed to resume oto context: %w", err)
		}
		return sharedCtx, nil
	}

	ctx, readyChan, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   20 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	sharedCtx = ctx
	sharedRate = sampleRate
	sharedChannels = channels
	return ctx, nil
}

// Oto output implementation using oto library
type Oto struct {
	mu           sync.Mutex
	ctx          context.Context
	cancel       context.CancelFunc
	otoCtx       *oto.Context
	current      *oto.Player
	pollInterval time.Duration
	vol          volumeState
	ready        bool
}

// NewOto creates a new Oto output
func NewOto() Output {
	return &Oto{
		pollInterval: time.Millisecond,
		vol:          newVolumeState(),
	}
}

// Open initializes the output device
func (o *Oto) Open(sampleRate, channels int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ready {
		return nil
	}

	otoCtx, err := acquireContext(sampleRate, channels)
	if err != nil {
		return err
	}

	o.otoCtx = otoCtx
	o.ctx, o.cancel = context.WithCancel(context.Background())
	o.ready = true

	logging.Infow("audio output initialized", "backend", "oto", "sample_rate", sampleRate, "channels", channels)
	return nil
}

// Play starts one block on a fresh player and watches it until it drains
func (o *Oto) Play(block audio.Block, done func()) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.ready {
		return ErrNotOpen
	}
	if o.current != nil {
		return ErrBusy
	}

	samples := applyVolume(block, o.vol.volume, o.vol.muted)
	pcm := make([]byte, len(samples)*2)
	audio.PutInt16LE(pcm, samples)

	player := o.otoCtx.NewPlayer(bytes.NewReader(pcm))
	player.Play()
	o.current = player

	go o.watch(o.ctx, player, done)
	return nil
}

// watch polls until the player has rendered everything, then reports done
func (o *Oto) watch(ctx context.Context, player *oto.Player, done func()) {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}

	o.mu.Lock()
	if o.current == player {
		o.current = nil
	}
	o.mu.Unlock()

	if err := player.Close(); err != nil {
		logging.Debugw("oto player close failed", "error", err)
	}

	select {
	case <-ctx.Done():
		return
	default:
	}
	if done != nil {
		done()
	}
}

// Close stops playback and suspends the shared context
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.ready {
		return nil
	}
	o.ready = false
	o.cancel()

	if o.current != nil {
		o.current.Pause()
		if err := o.current.Close(); err != nil {
			logging.Debugw("oto player close failed", "error", err)
		}
		o.current = nil
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()
	if err := o.otoCtx.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend oto context: %w", err)
	}
	return nil
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(volume int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.vol.volume = clampVolume(volume)
	logging.Infow("volume set", "volume", o.vol.volume)
}

// SetMuted sets mute state
func (o *Oto) SetMuted(muted bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.vol.muted = muted
	logging.Infow("mute set", "muted", muted)
}

// GetVolume returns current volume
func (o *Oto) GetVolume() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.vol.volume
}

// IsMuted returns mute state
func (o *Oto) IsMuted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.vol.muted
}
