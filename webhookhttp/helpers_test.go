package webhookhttp

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"  ":      "/",
		"api":     "/api",
		"/api/":   "/api",
		"/a/b///": "/a/b",
	}
	for in, want := range cases {
		require.Equal(t, want, normalizeBasePath(in), "in=%q", in)
	}
}

func TestJoinPath(t *testing.T) {
	require.Equal(t, "/webhook", joinPath("/", "/webhook"))
	require.Equal(t, "/api/webhook", joinPath("api", "webhook"))
	require.Equal(t, "/api", joinPath("/api", ""))
}

func TestWritePrettyJSON_NoEscape(t *testing.T) {
	w := httptest.NewRecorder()
	writePrettyJSON(w, 200, map[string]string{"k": "<a>•"})
	require.Equal(t, "{\n    \"k\": \"<a>•\"\n}\n", w.Body.String())
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
}
