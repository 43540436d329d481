// ABOUTME: Loopback media stream server for local testing
// ABOUTME: Accepts the start event and echoes every media frame back to the caller
package echo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muhammadawaisg/basic-ai-call/internal/discovery"
	"github.com/muhammadawaisg/basic-ai-call/internal/logging"
	"github.com/muhammadawaisg/basic-ai-call/pkg/protocol"
)

// Config holds server configuration
type Config struct {
	Port       int
	Name       string
	Path       string
	EnableMDNS bool

	// Delay holds each echoed frame back before sending it
	Delay time.Duration
}

// Stats counts server activity
type Stats struct {
	Connections int64
	Active      int64
	Echoed      int64
	Ignored     int64
}

// Server echoes media events back to each connected client
type Server struct {
	config   Config
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	httpServer  *http.Server
	mdnsManager *discovery.Manager

	connections atomic.Int64
	active      atomic.Int64
	echoed      atomic.Int64
	ignored     atomic.Int64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new server instance
func New(config Config) *Server {
	if config.Path == "" {
		config.Path = discovery.DefaultPath
	}
	if config.Name == "" {
		config.Name = "Echo Server"
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// local testing tool; accept any origin
				return true
			},
		},
		stopChan: make(chan struct{}),
	}
	s.mux.HandleFunc(config.Path, s.handleWebSocket)
	return s
}

// Handler returns the HTTP handler serving the media stream path
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until Stop is called or the listener fails
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(listener)
}

// Serve serves on listener until Stop is called or the listener fails
func (s *Server) Serve(listener net.Listener) error {
	logging.Infow("echo server starting", "name", s.config.Name,
		"addr", listener.Addr().String(), "path", s.config.Path)

	if s.config.EnableMDNS {
		port := s.config.Port
		if tcp, ok := listener.Addr().(*net.TCPAddr); ok {
			port = tcp.Port
		}
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        port,
			Path:        s.config.Path,
		})
		if err := s.mdnsManager.Advertise(); err != nil {
			logging.Warnw("failed to start mDNS advertisement", "error", err)
		}
	}

	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-s.stopChan:
		logging.Infow("echo server shutting down")
	case err := <-errChan:
		serverErr = err
	}

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		logging.Warnw("HTTP server shutdown error", "error", err)
	}

	s.wg.Wait()
	logging.Infow("echo server stopped", "connections", s.connections.Load(), "echoed", s.echoed.Load())

	if serverErr != nil {
		return fmt.Errorf("HTTP server failed: %w", serverErr)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// Stats returns server counters
func (s *Server) Stats() Stats {
	return Stats{
		Connections: s.connections.Load(),
		Active:      s.active.Load(),
		Echoed:      s.echoed.Load(),
		Ignored:     s.ignored.Load(),
	}
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warnw("WebSocket upgrade error", "error", err)
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()

	s.connections.Add(1)
	s.active.Add(1)
	defer s.active.Add(-1)

	logging.Infow("new connection", "remote", r.RemoteAddr)
	s.handleConnection(conn)
}

// handleConnection echoes media on one connection until it closes
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-done:
			return
		case <-s.stopChan:
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
	}()

	streamSid := ""
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Debugw("connection read ended", "error", err)
			}
			logging.Infow("connection closed", "stream_sid", streamSid)
			return
		}
		if messageType != websocket.TextMessage {
			s.ignored.Add(1)
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.ignored.Add(1)
			continue
		}

		switch msg.Event {
		case protocol.EventStart:
			if msg.Start != nil {
				streamSid = msg.Start.StreamSid
			}
			logging.Infow("stream started", "stream_sid", streamSid)

		case protocol.EventMedia:
			payload, ok := protocol.ParseMedia(data)
			if !ok {
				s.ignored.Add(1)
				continue
			}
			if s.config.Delay > 0 {
				time.Sleep(s.config.Delay)
			}
			if err := conn.WriteJSON(protocol.NewMediaMessage(payload, time.Now())); err != nil {
				logging.Debugw("echo write failed", "error", err)
				return
			}
			s.echoed.Add(1)

		default:
			s.ignored.Add(1)
		}
	}
}
