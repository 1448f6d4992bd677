package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Giri-Aayush/sui-faucet-console/internal/metrics"
	"github.com/Giri-Aayush/sui-faucet-console/internal/session"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Transport owns the resty client shared by every caller
type Transport struct {
	client  *resty.Client
	session *session.Session
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// TransportOptions configures the underlying HTTP client
type TransportOptions struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
	RateBurst int
}

// NewTransport creates the HTTP transport
func NewTransport(opts TransportOptions, sess *session.Session, logger *zap.Logger, m *metrics.Metrics) *Transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New(nil)
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	client.SetHeader("Content-Type", "application/json")
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		client.SetRateLimiter(rate.NewLimiter(rate.Limit(opts.RateLimit), burst))
	}

	return &Transport{
		client:  client,
		session: sess,
		logger:  logger,
		metrics: m,
	}
}

// Caller issues requests with a fixed authentication policy
type Caller struct {
	t *Transport

	attachToken  bool // send the session token when one is held
	unauthorized bool // classify 401 as Unauthorized
	clearOn401   bool // drop the session token on 401
}

// Authenticated attaches the session token and logs out on 401
func (t *Transport) Authenticated() *Caller {
	return &Caller{t: t, attachToken: true, unauthorized: true, clearOn401: true}
}

// Public never attaches a token; 401 is an ordinary HTTP error
func (t *Transport) Public() *Caller {
	return &Caller{t: t}
}

// anonymous is the login path: no token is sent, 401 means bad credentials
// and must not touch the stored session
func (t *Transport) anonymous() *Caller {
	return &Caller{t: t, unauthorized: true}
}

type request struct {
	method   string
	path     string
	endpoint string // metrics label, defaults to path
	query    url.Values
	body     any
}

// GetJSON issues a GET and decodes the JSON body into out
func (c *Caller) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	return decode(body, out)
}

// PostJSON issues a POST with a JSON body and decodes the response into out
func (c *Caller) PostJSON(ctx context.Context, path string, payload, out any) error {
	body, err := c.do(ctx, request{method: http.MethodPost, path: path, body: payload})
	if err != nil {
		return err
	}
	return decode(body, out)
}

// GetText issues a GET and returns the raw body, for endpoints that answer
// with a bare scalar instead of a JSON envelope
func (c *Caller) GetText(ctx context.Context, path string) (string, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: path})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Caller) do(ctx context.Context, r request) ([]byte, error) {
	endpoint := r.endpoint
	if endpoint == "" {
		endpoint = r.path
	}

	req := c.t.client.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if len(r.query) > 0 {
		req.SetQueryParamsFromValues(r.query)
	}
	if r.body != nil {
		req.SetBody(r.body)
	}
	if c.attachToken && c.t.session != nil {
		if token := c.t.session.Token(); token != "" {
			req.SetAuthToken(token)
		}
	}

	start := time.Now()
	resp, err := req.Execute(r.method, r.path)
	c.t.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// caller gave up; the backend is not at fault
			c.t.observe(endpoint, "cancelled")
			return nil, ctxErr
		}
		if errors.Is(err, resty.ErrRateLimitExceeded) {
			c.t.observe(endpoint, string(KindRateLimited))
			return nil, &Error{Kind: KindRateLimited, Message: MsgRateLimited, Err: err}
		}
		c.t.observe(endpoint, string(KindNetwork))
		c.t.logger.Debug("Request failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil, &Error{Kind: KindNetwork, Message: MsgNetwork, Err: err}
	}

	if !resp.IsSuccess() {
		apiErr := classify(resp.StatusCode(), serverMessage(resp.Body()), c.unauthorized)
		c.t.observe(endpoint, string(apiErr.Kind))

		if apiErr.Kind == KindUnauthorized && c.clearOn401 && c.t.session != nil {
			c.t.logger.Info("Session rejected by API, clearing token", zap.String("endpoint", endpoint))
			_ = c.t.session.Clear(ctx)
		}
		return nil, apiErr
	}

	c.t.observe(endpoint, "success")
	return resp.Body(), nil
}

func (t *Transport) observe(endpoint, outcome string) {
	t.metrics.APIRequests.WithLabelValues(endpoint, outcome).Inc()
}

// serverMessage extracts a message from an error body. Non-JSON bodies and
// bodies without a message yield "".
func serverMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	for _, key := range []string{"message", "error"} {
		switch v := payload[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				if s, ok := p.(string); ok && s != "" {
					parts = append(parts, s)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, "; ")
			}
		}
	}
	return ""
}

func decode(body []byte, out any) error {
	if out == nil || len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindNetwork, Message: MsgNetwork, Err: err}
	}
	return nil
}

func daysQuery(n int) url.Values {
	return url.Values{"days": []string{strconv.Itoa(n)}}
}
