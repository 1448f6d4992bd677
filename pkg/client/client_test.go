package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Giri-Aayush/sui-faucet-console/internal/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	client  *Client
	session *session.Session
	server  *httptest.Server
	hits    atomic.Int64
}

func newTestEnv(t *testing.T, mux *http.ServeMux, opts ...func(*Options)) *testEnv {
	t.Helper()

	env := &testEnv{}
	env.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.hits.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(env.server.Close)

	sess, err := session.New(context.Background(), session.NewMemoryStore(), zaptest.NewLogger(t))
	require.NoError(t, err)
	env.session = sess

	o := Options{
		BaseURL:                 env.server.URL,
		Timeout:                 5 * time.Second,
		BreakerFailureThreshold: 100,
		Now:                     func() time.Time { return fixedNow },
		Jitter:                  func() int { return 0 },
	}
	for _, fn := range opts {
		fn(&o)
	}
	env.client = New(o, sess, zaptest.NewLogger(t), nil)
	return env
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
