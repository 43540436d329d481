// ABOUTME: Transport abstraction for a streaming session
// ABOUTME: Adapts the WebSocket protocol client to the session's needs
package session

import (
	"context"
	"time"

	"github.com/muhammadawaisg/basic-ai-call/pkg/protocol"
)

// Transport carries start and media events to the server and inbound
// media payloads back
type Transport interface {
	SendStart(streamSid string) error
	SendMedia(frame []byte, at time.Time) error
	// Media delivers decoded payloads of inbound media events
	Media() <-chan []byte
	// Done is closed when the connection ends for any reason
	Done() <-chan struct{}
	Err() error
	Close() error
}

// Dialer opens a Transport to url
type Dialer func(ctx context.Context, url string) (Transport, error)

// DialWebSocket connects a protocol.Client to url
func DialWebSocket(ctx context.Context, url string) (Transport, error) {
	client := protocol.NewClient(protocol.Config{URL: url})
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// ignoredCounter is implemented by transports that count discarded messages
type ignoredCounter interface {
	Ignored() int64
}
