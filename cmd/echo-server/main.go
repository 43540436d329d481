// ABOUTME: Entry point for the loopback media stream server
// ABOUTME: Parses CLI flags and echoes caller audio back for local testing
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammadawaisg/basic-ai-call/internal/discovery"
	"github.com/muhammadawaisg/basic-ai-call/internal/echo"
	"github.com/muhammadawaisg/basic-ai-call/internal/logging"
)

var (
	port     = flag.Int("port", 8000, "WebSocket server port")
	name     = flag.String("name", "", "Server friendly name (default: hostname-echo-server)")
	path     = flag.String("path", discovery.DefaultPath, "WebSocket path")
	delay    = flag.Duration("delay", 0, "Hold each echoed frame back by this long")
	logFile  = flag.String("log-file", "echo-server.log", "Log file path")
	logLevel = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	noMDNS   = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
)

func main() {
	flag.Parse()

	// Log to both file and stderr
	if _, err := logging.Init(logging.Options{Level: *logLevel, OutputPaths: []string{"stderr", *logFile}}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logging.Sync() }()

	// Determine server name
	serverName := *name
	if serverName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serverName = fmt.Sprintf("%s-echo-server", hostname)
	}

	srv := echo.New(echo.Config{
		Port:       *port,
		Name:       serverName,
		Path:       *path,
		EnableMDNS: !*noMDNS,
		Delay:      *delay,
	})

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logging.Infow("received signal, shutting down gracefully", "signal", sig.String())
		srv.Stop()
	}()

	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			stats := srv.Stats()
			logging.Debugw("echo stats", "connections", stats.Connections, "active", stats.Active,
				"echoed", stats.Echoed, "ignored", stats.Ignored)
		}
	}()

	if err := srv.Start(); err != nil {
		logging.Errorw("server error", "error", err)
		_ = logging.Sync()
		os.Exit(1)
	}
}
