// ABOUTME: Entry point for the voice streaming client
// ABOUTME: Parses CLI flags, loads configuration and runs the call session
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muhammadawaisg/basic-ai-call/internal/config"
	"github.com/muhammadawaisg/basic-ai-call/internal/discovery"
	"github.com/muhammadawaisg/basic-ai-call/internal/logging"
	"github.com/muhammadawaisg/basic-ai-call/internal/session"
	"github.com/muhammadawaisg/basic-ai-call/internal/ui"
	"github.com/muhammadawaisg/basic-ai-call/internal/version"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio/input"
	"github.com/muhammadawaisg/basic-ai-call/pkg/audio/output"
)

var (
	envFile     = flag.String("env-file", ".env", "Optional dotenv file")
	urlFlag     = flag.String("url", "", "Media stream WebSocket URL (overrides MEDIA_STREAM_URL and APP_ENV)")
	streamSid   = flag.String("stream-sid", "", "Stream id sent in the start event (default: random UUID)")
	blockSize   = flag.Int("block-size", 0, "Capture period in samples (overrides BLOCK_SIZE)")
	maxQueued   = flag.Int("max-queued", -1, "Playback queue bound, 0 = unbounded (overrides MAX_QUEUED)")
	outBackend  = flag.String("output", "", "Audio output backend: oto or malgo (overrides AUDIO_BACKEND_OUT)")
	inBackend   = flag.String("input", "", "Audio input backend: malgo or portaudio (overrides AUDIO_BACKEND_IN)")
	logFile     = flag.String("log-file", "", "Log file path (overrides LOG_FILE)")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, start streaming immediately and log to stderr")
	discover    = flag.Bool("discover", false, "Find a media stream server on the local network via mDNS")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	useTUI := !*noTUI

	// TUI mode: log only to file
	outputs := []string{cfg.LogFile}
	if !useTUI {
		outputs = append(outputs, "stderr")
	}
	if _, err := logging.Init(logging.Options{Level: cfg.LogLevel, OutputPaths: outputs}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logging.Sync() }()

	if *discover {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		server, err := discovery.FindServer(ctx, discovery.Config{})
		cancel()
		if err != nil {
			logging.Errorw("server discovery failed", "error", err)
			fmt.Fprintf(os.Stderr, "server discovery failed: %v\n", err)
			os.Exit(1)
		}
		cfg.URL = server.URL()
	}

	logging.Infow("starting", "product", version.Product, "version", version.Version,
		"env", cfg.Env, "url", cfg.URL, "output", cfg.OutputBackend, "input", cfg.InputBackend)

	var tuiProg *tea.Program
	var control *ui.Control
	if useTUI {
		control = ui.NewControl()
		tuiProg, err = ui.Run(control, cfg.URL)
		if err != nil {
			logging.Errorw("failed to start TUI", "error", err)
			os.Exit(1)
		}
		go func() {
			if _, err := tuiProg.Run(); err != nil {
				logging.Errorw("TUI exited with error", "error", err)
			}
		}()
	}

	// Helper to update TUI
	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	// ended is signalled whenever a session goes inactive
	ended := make(chan struct{}, 1)

	sess := session.New(session.Config{
		URL:        cfg.URL,
		StreamSid:  cfg.StreamSid,
		BlockSize:  cfg.BlockSize,
		MaxQueued:  cfg.MaxQueued,
		NewCapture: captureFactory(cfg.InputBackend),
		NewOutput:  outputFactory(cfg.OutputBackend),
		OnStateChange: func(status session.Status) {
			active := status.Active
			if !active {
				select {
				case ended <- struct{}{}:
				default:
				}
			}
			updateTUI(ui.StatusMsg{Active: &active, URL: status.URL, StreamSid: status.StreamSid})
		},
		OnError: func(err error) {
			logging.Warnw("session error", "error", err)
			updateTUI(ui.StatusMsg{Error: err.Error()})
		},
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if control == nil {
		runHeadless(sess, sigChan, ended)
		return
	}

	go statsUpdateLoop(sess, updateTUI)

	for {
		select {
		case start := <-control.Toggle:
			if start {
				go startSession(sess, updateTUI)
			} else {
				go sess.Stop()
			}
		case vol := <-control.Changes:
			logging.Infow("volume change", "volume", vol.Volume, "muted", vol.Muted)
			sess.SetVolume(vol.Volume)
			sess.SetMuted(vol.Muted)
		case <-control.Quit:
			logging.Infow("received quit signal from TUI")
			sess.Stop()
			return
		case <-sigChan:
			logging.Infow("shutdown signal received")
			sess.Stop()
			tuiProg.Quit()
			return
		}
	}
}

// runHeadless starts streaming immediately and runs until a signal or the
// session ends
func runHeadless(sess *session.Session, sigChan <-chan os.Signal, ended <-chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	err := sess.Start(ctx)
	cancel()
	if err != nil {
		logging.Errorw("failed to start session", "error", err)
		fmt.Fprintf(os.Stderr, "failed to start session: %v\n", err)
		os.Exit(1)
	}

	select {
	case <-sigChan:
		logging.Infow("shutdown signal received")
	case <-ended:
		logging.Infow("session ended")
	}

	sess.Stop()

	stats := sess.Stats()
	logging.Infow("session totals", "frames_sent", stats.FramesSent, "media_received", stats.MediaReceived,
		"played", stats.Playback.Played, "dropped", stats.Playback.Dropped)
}

// startSession starts the session from a TUI toggle
func startSession(sess *session.Session, updateTUI func(ui.StatusMsg)) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := sess.Start(ctx); err != nil {
		logging.Errorw("failed to start session", "error", err)
		inactive := false
		updateTUI(ui.StatusMsg{Active: &inactive, Error: err.Error()})
	}
}

// statsUpdateLoop periodically updates TUI with stream statistics
func statsUpdateLoop(sess *session.Session, updateTUI func(ui.StatusMsg)) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		stats := sess.Stats()
		updateTUI(ui.StatusMsg{Stats: &ui.StatsSnapshot{
			Sent:     stats.FramesSent,
			Received: stats.MediaReceived,
			Played:   stats.Playback.Played,
			Dropped:  stats.Playback.Dropped + stats.Capture.Dropped,
			Queued:   stats.Playback.Queued,
			Skipped:  stats.Capture.Skipped,
			Ignored:  stats.Ignored,
		}})
	}
}

// applyFlags lets command-line flags override environment values
func applyFlags(cfg *config.Config) {
	if *urlFlag != "" {
		cfg.URL = *urlFlag
	}
	if *streamSid != "" {
		cfg.StreamSid = *streamSid
	}
	if *blockSize > 0 {
		cfg.BlockSize = *blockSize
	}
	if *maxQueued >= 0 {
		cfg.MaxQueued = *maxQueued
	}
	if *outBackend != "" {
		cfg.OutputBackend = *outBackend
	}
	if *inBackend != "" {
		cfg.InputBackend = *inBackend
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
}

func outputFactory(backend string) func() output.Output {
	if backend == config.BackendMalgo {
		return output.NewMalgo
	}
	return output.NewOto
}

func captureFactory(backend string) func() input.Capture {
	if backend == "portaudio" {
		return input.NewPortAudio
	}
	return input.NewMalgo
}
