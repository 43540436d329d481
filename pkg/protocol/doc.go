// ABOUTME: Media stream wire protocol package
// ABOUTME: Defines protocol messages and WebSocket client
// Package protocol implements the JSON media stream protocol.
//
// A client announces itself with a start event and then exchanges media
// events, each carrying one base64-encoded μ-law frame.
//
// Example:
//
//	client := protocol.NewClient(protocol.Config{URL: "ws://127.0.0.1:8000/twilio/media-stream"})
//	err := client.Connect(ctx)
//	err = client.SendStart("stream-1")
//	err = client.SendMedia(frame, time.Now())
package protocol
