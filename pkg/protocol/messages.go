// ABOUTME: Media stream wire protocol message types
// ABOUTME: Defines JSON start and media events exchanged over the WebSocket
package protocol

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"time"
)

// Event names
const (
	EventStart = "start"
	EventMedia = "media"
)

// Message is the JSON envelope for every text frame
type Message struct {
	Event string `json:"event"`
	Start *Start `json:"start,omitempty"`
	Media *Media `json:"media,omitempty"`
}

// Start announces the stream once, before any media
type Start struct {
	StreamSid string `json:"streamSid"`
}

// Media carries one base64 μ-law frame
type Media struct {
	Payload   string `json:"payload,omitempty"`
	Timestamp Millis `json:"timestamp,omitempty"`
}

// Millis is a timestamp in milliseconds since the Unix epoch. It decodes
// from a JSON number or a quoted decimal string; anything else decodes as
// zero so an odd timestamp never costs the payload.
type Millis int64

// UnmarshalJSON implements json.Unmarshaler
func (m *Millis) UnmarshalJSON(data []byte) error {
	*m = 0
	text := string(data)
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		*m = Millis(v)
		return nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		*m = Millis(int64(f))
	}
	return nil
}

// Time converts the timestamp to a time.Time
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

// NewStartMessage builds the session-start event
func NewStartMessage(streamSid string) Message {
	return Message{
		Event: EventStart,
		Start: &Start{StreamSid: streamSid},
	}
}

// NewMediaMessage builds a media event for frame captured at at
func NewMediaMessage(frame []byte, at time.Time) Message {
	return Message{
		Event: EventMedia,
		Media: &Media{
			Payload:   base64.StdEncoding.EncodeToString(frame),
			Timestamp: Millis(at.UnixMilli()),
		},
	}
}

// ParseMedia extracts the decoded payload of an inbound media event. It
// reports false for anything that is not a well-formed media event with a
// non-empty payload that decodes as base64.
func ParseMedia(data []byte) ([]byte, bool) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, false
	}
	if msg.Event != EventMedia || msg.Media == nil || msg.Media.Payload == "" {
		return nil, false
	}
	payload, err := base64.StdEncoding.DecodeString(msg.Media.Payload)
	if err != nil || len(payload) == 0 {
		return nil, false
	}
	return payload, true
}
