package webhookhttp_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/webhookhttp"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newGinServer(t *testing.T, cfg webhookhttp.Config) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if cfg.RecordsDir == "" {
		cfg.RecordsDir = filepath.Join(t.TempDir(), "call_logs")
	}

	r := gin.New()
	r.Use(gin.Recovery(), webhookhttp.RequestID())
	require.NoError(t, webhookhttp.RegisterGinRoutes(r, cfg))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestIntegration_WebhookThenMaskedRead(t *testing.T) {
	srv := newGinServer(t, webhookhttp.Config{MaskPII: true})

	resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(setLeadPhone))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(webhookhttp.HeaderRequestID))
	require.JSONEq(t, `{"status":"webhook received","call_id":"abc123"}`, readBody(t, resp))

	resp, err = http.Get(srv.URL + "/webhook?call_id=abc123")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &rec))
	details := rec["call_details"].(map[string]any)
	args := details["Set_Lead_Field"].(map[string]any)["arguments"].(map[string]any)
	require.Equal(t, "55•••67", args["phone"])
}

func TestIntegration_TokenRequired(t *testing.T) {
	srv := newGinServer(t, webhookhttp.Config{
		TokenProvider: func(ctx context.Context) (string, error) { return "s3cret", nil },
	})

	resp, err := http.Get(srv.URL + "/webhook")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = readBody(t, resp)

	resp, err = http.Get(srv.URL + "/webhook?token=s3cret")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"count":0,"latest":[]}`, readBody(t, resp))
}

func TestIntegration_NotFound(t *testing.T) {
	srv := newGinServer(t, webhookhttp.Config{})

	resp, err := http.Get(srv.URL + "/webhook?call_id=doesnotexist")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Contains(t, readBody(t, resp), "doesnotexist")
}

func TestIntegration_BasePathAndProbes(t *testing.T) {
	srv := newGinServer(t, webhookhttp.Config{BasePath: "vapi/"})

	resp, err := http.Get(srv.URL + "/vapi")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, readBody(t, resp), "Webhook server running")

	resp, err = http.Post(srv.URL+"/vapi/ping", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"ok":true}`, readBody(t, resp))

	resp, err = http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(setLeadPhone))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = readBody(t, resp)
}

func TestIntegration_RequestIDPassthrough(t *testing.T) {
	srv := newGinServer(t, webhookhttp.Config{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set(webhookhttp.HeaderRequestID, "req_fixed")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = readBody(t, resp)
	require.Equal(t, "req_fixed", resp.Header.Get(webhookhttp.HeaderRequestID))
}

func TestIntegration_ConcurrentWritesSameCall(t *testing.T) {
	srv := newGinServer(t, webhookhttp.Config{SerializeWrites: true})

	fields := []string{"phone", "email", "name", "budget", "city", "beds", "baths", "timeline"}
	var wg sync.WaitGroup
	for _, f := range fields {
		wg.Add(1)
		go func(field string) {
			defer wg.Done()
			body := `{"message":{"call":{"id":"race"},"toolCalls":[{"function":{"name":"Set_Lead_Field","arguments":{"field":"` + field + `","value":"v"}}}]}}`
			resp, err := http.Post(srv.URL+"/webhook", "application/json", strings.NewReader(body))
			if err != nil {
				t.Error(err)
				return
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Errorf("status=%d", resp.StatusCode)
			}
		}(f)
	}
	wg.Wait()

	resp, err := http.Get(srv.URL + "/webhook?call_id=race")
	require.NoError(t, err)
	var rec struct {
		CallDetails map[string]struct {
			Arguments map[string]any `json:"arguments"`
		} `json:"call_details"`
	}
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &rec))
	require.Len(t, rec.CallDetails["Set_Lead_Field"].Arguments, len(fields), "串行化后不应丢失任何字段")
}
