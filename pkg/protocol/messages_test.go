// ABOUTME: Tests for media stream protocol message types
// ABOUTME: Verifies wire shapes and inbound media parsing rules
package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartMessageWireShape(t *testing.T) {
	data, err := json.Marshal(NewStartMessage("MZ123"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"start","start":{"streamSid":"MZ123"}}`, string(data))
}

func TestMediaMessageWireShape(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	data, err := json.Marshal(NewMediaMessage([]byte{0xFF, 0x00, 0x7F}, at))
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"media","media":{"payload":"/wB/","timestamp":1700000000123}}`, string(data))
}

func TestParseMedia(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   []byte
		wantOK bool
	}{
		{
			name:   "valid media",
			input:  `{"event":"media","media":{"payload":"/wB/","timestamp":1}}`,
			want:   []byte{0xFF, 0x00, 0x7F},
			wantOK: true,
		},
		{
			name:   "string timestamp",
			input:  `{"event":"media","media":{"payload":"/w==","timestamp":"1700000000123"}}`,
			want:   []byte{0xFF},
			wantOK: true,
		},
		{
			name:   "odd timestamp keeps payload",
			input:  `{"event":"media","media":{"payload":"/w==","timestamp":true}}`,
			want:   []byte{0xFF},
			wantOK: true,
		},
		{name: "ping", input: `{"event":"ping"}`},
		{name: "start", input: `{"event":"start","start":{"streamSid":"x"}}`},
		{name: "missing media", input: `{"event":"media"}`},
		{name: "missing payload", input: `{"event":"media","media":{"timestamp":1}}`},
		{name: "empty payload", input: `{"event":"media","media":{"payload":""}}`},
		{name: "bad base64", input: `{"event":"media","media":{"payload":"@@@"}}`},
		{name: "truncated base64", input: `{"event":"media","media":{"payload":"/wB"}}`},
		{name: "not json", input: `hello`},
		{name: "truncated json", input: `{"event":"media","media":{"payload":"/wB/"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMedia([]byte(tt.input))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMillisDecoding(t *testing.T) {
	var m struct {
		A Millis `json:"a"`
		B Millis `json:"b"`
		C Millis `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":42,"b":"43","c":"x"}`), &m))
	assert.Equal(t, Millis(42), m.A)
	assert.Equal(t, Millis(43), m.B)
	assert.Equal(t, Millis(0), m.C)
	assert.Equal(t, int64(42), m.A.Time().UnixMilli())
}
