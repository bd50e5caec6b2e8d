package vapiapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallID(t *testing.T) {
	cases := []struct {
		body   string
		want   string
		wantOK bool
	}{
		{body: `{"message":{"call":{"id":"abc123"}}}`, want: "abc123", wantOK: true},
		{body: `{"message":{"call":{"id":""}}}`},
		{body: `{"message":{"call":{}}}`},
		{body: `{"message":{}}`},
		{body: `{}`},
	}
	for _, tc := range cases {
		p, err := DecodeWebhookPayload([]byte(tc.body))
		require.NoError(t, err)
		got, ok := p.CallID()
		require.Equal(t, tc.wantOK, ok, tc.body)
		require.Equal(t, tc.want, got, tc.body)
	}

	var nilPayload *WebhookPayload
	_, ok := nilPayload.CallID()
	require.False(t, ok)
}

func TestDecodeWebhookPayload_TypeMismatch(t *testing.T) {
	_, err := DecodeWebhookPayload([]byte(`{"message":{"call":{"id":123}}}`))
	require.Error(t, err)
	_, err = DecodeWebhookPayload([]byte(`[1,2,3]`))
	require.Error(t, err)
}

func TestToolCallsRaw(t *testing.T) {
	p, err := DecodeWebhookPayload([]byte(`{"message":{"call":{"id":"x"}},"toolWithToolCallList":[]}`))
	require.NoError(t, err)
	raw, ok := p.ToolCallsRaw()
	require.True(t, ok)
	require.Equal(t, "[]", string(raw))

	p, err = DecodeWebhookPayload([]byte(`{"message":{"call":{"id":"x"}}}`))
	require.NoError(t, err)
	_, ok = p.ToolCallsRaw()
	require.False(t, ok)
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	require.True(t, strings.HasPrefix(a, "req_"))
	require.NotEqual(t, a, b)
}
