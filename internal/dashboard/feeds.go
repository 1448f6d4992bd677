// Package dashboard assembles the polled dashboard state from the API
// modules. Each feed batches its sub-calls concurrently and publishes the
// combined result once all of them have settled.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Giri-Aayush/sui-faucet-console/internal/fallback"
	"github.com/Giri-Aayush/sui-faucet-console/internal/metrics"
	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
	"github.com/Giri-Aayush/sui-faucet-console/internal/poller"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNotAuthenticated is the state of the analytics feed while no token is held
var ErrNotAuthenticated = errors.New("Not authenticated")

// StatsSource is the part of the analytics API the stats feed reads
type StatsSource interface {
	GetStats(ctx context.Context, days int) (*models.AnalyticsStats, error)
	GetTopCountries(ctx context.Context, days, limit int) []models.CountryRequests
	GetHourly(ctx context.Context, days int) ([]models.DailyRequests, error)
	GetTransactionHistory(ctx context.Context, limit int) ([]models.Transaction, error)
}

// AnalyticsSource is the part of the analytics API the analytics feed reads
type AnalyticsSource interface {
	GetTopCountry(ctx context.Context, days int) models.TopCountry
	GetTopSources(ctx context.Context, days, limit int) []models.SourceShare
	GetGeographic(ctx context.Context, days int) []models.GeoShare
	GetPerformance(ctx context.Context, days int) (*models.PerformanceMetrics, error)
}

// TokenHolder reports whether an admin session is active
type TokenHolder interface {
	HasToken() bool
}

// FeedOptions configures both feeds
type FeedOptions struct {
	Days         int
	TopLimit     int
	HistoryLimit int
	Interval     time.Duration
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	Now          func() time.Time
}

func (o *FeedOptions) defaults() {
	if o.Days <= 0 {
		o.Days = 7
	}
	if o.TopLimit <= 0 {
		o.TopLimit = 5
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = 10
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// StatsFeed polls the public dashboard summary
type StatsFeed struct {
	*poller.Poller[models.AnalyticsStats]

	source StatsSource
	policy *fallback.Policy
	opts   FeedOptions
}

// NewStatsFeed creates a stopped stats feed
func NewStatsFeed(source StatsSource, opts FeedOptions) *StatsFeed {
	opts.defaults()
	f := &StatsFeed{
		source: source,
		policy: fallback.NewPolicy(opts.Logger, opts.Metrics),
		opts:   opts,
	}
	f.Poller = poller.New(f.fetch, poller.Options{
		Name:     "stats",
		Interval: opts.Interval,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	})
	return f
}

// fetch runs the four sub-calls. Only the summary itself can fail the batch;
// the others fall back individually.
func (f *StatsFeed) fetch(ctx context.Context) (models.AnalyticsStats, error) {
	var (
		stats     *models.AnalyticsStats
		countries []models.CountryRequests
		series    []models.DailyRequests
		txs       []models.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := f.source.GetStats(gctx, f.opts.Days)
		if err != nil {
			return fmt.Errorf("failed to fetch stats: %w", err)
		}
		stats = s
		return nil
	})
	g.Go(func() error {
		countries = f.source.GetTopCountries(gctx, f.opts.Days, f.opts.TopLimit)
		return nil
	})
	g.Go(func() error {
		s, err := f.source.GetHourly(gctx, f.opts.Days)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				f.policy.Record(fallback.RequestSeries, fallback.ReasonError, err)
			}
			s = fallback.Series(f.opts.Now(), 0)
		}
		series = s
		return nil
	})
	g.Go(func() error {
		t, err := f.source.GetTransactionHistory(gctx, f.opts.HistoryLimit)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				f.policy.Record(fallback.Transactions, fallback.ReasonError, err)
			}
			t = []models.Transaction{}
		}
		txs = t
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.AnalyticsStats{}, err
	}

	out := *stats
	out.TopCountries = countries
	out.RequestsOverTime = series
	out.RecentTransactions = txs
	return out, nil
}

// AnalyticsFeed polls the admin-only analytics overview
type AnalyticsFeed struct {
	*poller.Poller[models.AnalyticsOverview]

	source  AnalyticsSource
	session TokenHolder
	policy  *fallback.Policy
	opts    FeedOptions
}

// NewAnalyticsFeed creates a stopped analytics feed gated on session
func NewAnalyticsFeed(source AnalyticsSource, session TokenHolder, opts FeedOptions) *AnalyticsFeed {
	opts.defaults()
	f := &AnalyticsFeed{
		source:  source,
		session: session,
		policy:  fallback.NewPolicy(opts.Logger, opts.Metrics),
		opts:    opts,
	}
	f.Poller = poller.New(f.fetch, poller.Options{
		Name:     "analytics",
		Interval: opts.Interval,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	})
	return f
}

func (f *AnalyticsFeed) fetch(ctx context.Context) (models.AnalyticsOverview, error) {
	if !f.session.HasToken() {
		return models.AnalyticsOverview{}, ErrNotAuthenticated
	}

	var out models.AnalyticsOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.TopCountry = f.source.GetTopCountry(gctx, f.opts.Days)
		return nil
	})
	g.Go(func() error {
		out.TopSources = f.source.GetTopSources(gctx, f.opts.Days, f.opts.TopLimit)
		return nil
	})
	g.Go(func() error {
		out.Geographic = f.source.GetGeographic(gctx, f.opts.Days)
		return nil
	})
	g.Go(func() error {
		perf, err := f.source.GetPerformance(gctx, f.opts.Days)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				f.policy.Record(fallback.Performance, fallback.ReasonError, err)
			}
			estimate := fallback.PerformanceEstimate()
			perf = &estimate
		}
		out.Performance = *perf
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.AnalyticsOverview{}, err
	}
	return out, nil
}
