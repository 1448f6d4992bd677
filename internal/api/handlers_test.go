package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Giri-Aayush/sui-faucet-console/internal/config"
	"github.com/Giri-Aayush/sui-faucet-console/internal/dashboard"
	"github.com/Giri-Aayush/sui-faucet-console/internal/metrics"
	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
	"github.com/Giri-Aayush/sui-faucet-console/internal/session"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/client"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testAddress = "0x8d9a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8"

type testServer struct {
	app       *fiber.App
	stats     *dashboard.StatsFeed
	analytics *dashboard.AnalyticsFeed
	session   *session.Session
}

func backend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/sui/faucet", func(w http.ResponseWriter, r *http.Request) {
		var req models.FaucetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.WalletAddress == "0x1" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"txHash":"0xfeed","amount":1}`))
	})
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"opaque-token","user":{"username":"admin"}}`))
	})
	mux.HandleFunc("/api/v1/system-setting", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"normalizedAmount":1,"limitPerIp":5,"ttlPerIp":3600,"isFaucetEnabled":true,"isRateLimitEnabled":true}`))
	})
	mux.HandleFunc("/api/v1/analytics/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"_id":"success","count":8,"totalAmount":80},{"_id":"failed","count":2,"totalAmount":0}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	sess, err := session.New(context.Background(), session.NewMemoryStore(), logger)
	require.NoError(t, err)

	cfg := &config.Config{Network: "testnet", AnalyticsDays: 7}
	c := client.New(client.Options{BaseURL: backend(t).URL, Timeout: 5 * time.Second}, sess, logger, m)

	opts := dashboard.FeedOptions{Interval: time.Hour, Logger: logger, Metrics: m}
	stats := dashboard.NewStatsFeed(c.Analytics, opts)
	analytics := dashboard.NewAnalyticsFeed(c.Analytics, sess, opts)
	editor := dashboard.NewSettingsEditor(c.System, logger)

	app := NewApp()
	SetupRoutes(app, NewHandler(cfg, logger, c, stats, analytics, editor), reg)

	return &testServer{app: app, stats: stats, analytics: analytics, session: sess}
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, string) {
	t.Helper()
	return s.doAs(t, "", method, path, body)
}

// doAs sends the request with token as its bearer token, if any
func (s *testServer) doAs(t *testing.T, token, method, path, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"status":"ok"`)
	assert.Contains(t, body, `"authenticated":false`)
}

func TestRequestTokens(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/faucet", `{"walletAddress":"`+testAddress+`"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"txHash":"0xfeed"`)
	assert.Contains(t, body, `"explorerUrl":"https://suiscan.xyz/testnet/tx/0xfeed"`)

	status, body = s.do(t, http.MethodPost, "/api/faucet", `{"walletAddress":"0x1"}`)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Contains(t, body, client.MsgRateLimited)

	status, body = s.do(t, http.MethodPost, "/api/faucet", `{"walletAddress":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, client.MsgInvalidAddress)

	status, _ = s.do(t, http.MethodPost, "/api/faucet", `{`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStatsFeedEndpoint(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/dashboard/stats", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"data":null`)

	state := s.stats.RunOnce(context.Background())
	require.NoError(t, state.Err)

	status, body = s.do(t, http.MethodGet, "/api/dashboard/stats", "")
	assert.Equal(t, http.StatusOK, status)

	var got FeedState[models.AnalyticsStats]
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	require.NotNil(t, got.Data)
	assert.Equal(t, 10, got.Data.TotalRequests)
	assert.Len(t, got.Data.RequestsOverTime, 7, "hourly 404 falls back to the demo series")
	assert.NotNil(t, got.UpdatedAt)
}

func TestAnalyticsRequiresLogin(t *testing.T) {
	s := newTestServer(t)
	s.analytics.RunOnce(context.Background())

	status, body := s.do(t, http.MethodGet, "/api/dashboard/analytics", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "Not authenticated")
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"pw"}`)
	require.Equal(t, http.StatusOK, status)

	var info models.SessionInfo
	require.NoError(t, json.Unmarshal([]byte(body), &info))
	require.True(t, info.Authenticated)
	return info.Token
}

func TestLoginLogout(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "Invalid credentials")
	assert.False(t, s.session.HasToken())

	token := s.login(t)
	assert.Equal(t, "opaque-token", token)
	assert.Equal(t, "opaque-token", s.session.Token())

	status, body = s.doAs(t, token, http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"authenticated":false`)
	assert.NotContains(t, body, `"token"`)
	assert.False(t, s.session.HasToken())
}

func TestAdminRoutesRejectOtherCallers(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)
	s.analytics.RunOnce(context.Background())

	tests := []struct {
		name   string
		token  string
		method string
		path   string
		body   string
	}{
		{name: "anonymous analytics", method: http.MethodGet, path: "/api/dashboard/analytics"},
		{name: "wrong token analytics", token: "guess", method: http.MethodGet, path: "/api/dashboard/analytics"},
		{name: "anonymous logout", method: http.MethodPost, path: "/api/auth/logout"},
		{name: "anonymous settings update", method: http.MethodPut, path: "/api/settings", body: `{"normalizedAmount":2,"limitPerIp":5,"ttlPerIp":60}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := s.doAs(t, tt.token, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Contains(t, body, "Not authenticated")
		})
	}
	assert.Equal(t, token, s.session.Token(), "rejected callers cannot end the session")

	status, body := s.doAs(t, token, http.MethodGet, "/api/dashboard/analytics", "")
	assert.Equal(t, http.StatusOK, status)

	var got FeedState[models.AnalyticsOverview]
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	require.NotNil(t, got.Data)
	assert.Equal(t, "Vietnam", got.Data.TopCountry.Country)
}

func TestSettingsEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/settings", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"limitPerIp":5`)

	token := s.login(t)

	status, body = s.doAs(t, token, http.MethodPut, "/api/settings", `{"normalizedAmount":2,"limitPerIp":5,"ttlPerIp":60}`)
	assert.Equal(t, http.StatusNotImplemented, status)
	assert.Contains(t, body, "Settings update is not supported by the API yet")

	status, _ = s.doAs(t, token, http.MethodPut, "/api/settings", `{"normalizedAmount":0,"limitPerIp":5,"ttlPerIp":60}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestWalletActivity(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodGet, "/api/dashboard/wallet/not-an-address", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := s.do(t, http.MethodGet, "/api/dashboard/wallet/"+testAddress+"?days=30", "")
	assert.Equal(t, http.StatusOK, status)

	var report models.WalletActivityReport
	require.NoError(t, json.Unmarshal([]byte(body), &report))
	assert.Equal(t, testAddress, report.Address)
	assert.Len(t, report.Transactions, 5, "missing backend route yields the demo report")
}

func TestRefreshAndMetrics(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodPost, "/api/dashboard/refresh", "")
	assert.Equal(t, http.StatusAccepted, status)

	s.stats.RunOnce(context.Background())

	status, body := s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "sui_faucet_api_requests_total")
	assert.Contains(t, body, "sui_faucet_poll_cycles_total")
}
