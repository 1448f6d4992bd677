// Package client talks to the SUI faucet API. Each resource family has its
// own module; all of them share one transport and one session.
package client

import (
	"math/rand/v2"
	"time"

	"github.com/Giri-Aayush/sui-faucet-console/internal/config"
	"github.com/Giri-Aayush/sui-faucet-console/internal/fallback"
	"github.com/Giri-Aayush/sui-faucet-console/internal/metrics"
	"github.com/Giri-Aayush/sui-faucet-console/internal/session"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const breakerName = "analytics"

// Options configures a Client
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64
	RateBurst  int
	HealthPath string

	BreakerFailureThreshold uint32
	BreakerCooldown         time.Duration

	// Now and Jitter are overridable for tests
	Now    func() time.Time
	Jitter func() int
}

// Client bundles the API modules
type Client struct {
	Faucet    *FaucetAPI
	Analytics *AnalyticsAPI
	System    *SystemAPI
	Auth      *AuthAPI
}

// New creates a client. sess is required; logger and m may be nil.
func New(opts Options, sess *session.Session, logger *zap.Logger, m *metrics.Metrics) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if opts.HealthPath == "" {
		opts.HealthPath = "/api/health"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Jitter == nil {
		opts.Jitter = func() int { return rand.IntN(2*maxDailyJitter+1) - maxDailyJitter }
	}
	if opts.BreakerFailureThreshold == 0 {
		opts.BreakerFailureThreshold = 5
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = 30 * time.Second
	}

	t := NewTransport(TransportOptions{
		BaseURL:   opts.BaseURL,
		Timeout:   opts.Timeout,
		RateLimit: opts.RateLimit,
		RateBurst: opts.RateBurst,
	}, sess, logger, m)

	authed := t.Authenticated()
	public := t.Public()

	return &Client{
		Faucet: &FaucetAPI{public: public},
		Analytics: &AnalyticsAPI{
			caller:  authed,
			breaker: newBreaker(opts, logger, m),
			policy:  fallback.NewPolicy(logger, m),
			now:     opts.Now,
			jitter:  opts.Jitter,
		},
		System: &SystemAPI{public: public, authed: authed, healthPath: opts.HealthPath},
		Auth: &AuthAPI{
			anonymous: t.anonymous(),
			authed:    authed,
			session:   sess,
			logger:    logger,
		},
	}
}

// NewFromConfig creates a client from the loaded configuration
func NewFromConfig(cfg *config.Config, sess *session.Session, logger *zap.Logger, m *metrics.Metrics) *Client {
	threshold := cfg.BreakerFailureThreshold
	if threshold < 0 {
		threshold = 0
	}
	return New(Options{
		BaseURL:                 cfg.APIBaseURL,
		Timeout:                 cfg.RequestTimeout,
		RateLimit:               cfg.ClientRateLimitRPS,
		RateBurst:               cfg.ClientRateBurst,
		HealthPath:              cfg.HealthPath,
		BreakerFailureThreshold: uint32(threshold),
		BreakerCooldown:         cfg.BreakerCooldown,
	}, sess, logger, m)
}

func newBreaker(opts Options, logger *zap.Logger, m *metrics.Metrics) *gobreaker.CircuitBreaker[any] {
	m.BreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			m.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
}
