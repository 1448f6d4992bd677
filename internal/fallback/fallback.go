// Package fallback synthesizes substitute analytics when the live API returns
// nothing useful, so dashboards never render an empty chart.
//
// The policy only covers read-side analytics. Faucet requests and settings
// writes must surface their real errors and never pass through here.
package fallback

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/Giri-Aayush/sui-faucet-console/internal/metrics"
	"go.uber.org/zap"
)

// Resource names the analytics dataset a substitute is produced for
type Resource string

const (
	Countries      Resource = "countries"
	TopCountry     Resource = "top_country"
	Sources        Resource = "sources"
	Geographic     Resource = "geographic"
	Performance    Resource = "performance"
	RequestSeries  Resource = "request_series"
	WalletActivity Resource = "wallet_activity"
	Transactions   Resource = "transactions"
)

// Reason records why the live value was replaced
type Reason string

const (
	ReasonError       Reason = "error"
	ReasonUnknownOnly Reason = "unknown_only"
	ReasonEmpty       Reason = "empty"
)

// UnknownBucket is the backend's sentinel for an unresolved country or source
const UnknownBucket = "Unknown"

// DefaultTotal is distributed when no live total was observed
const DefaultTotal = 1000

// Bucket is one named share of a synthesized distribution
type Bucket struct {
	Name       string
	Count      int
	Percentage float64
}

type weight struct {
	name    string
	percent int
}

// Fixed ordered weights; each list sums to 100.
var (
	countryWeights = []weight{
		{"Vietnam", 35},
		{"United States", 22},
		{"China", 18},
		{"Japan", 13},
		{"South Korea", 12},
	}
	sourceWeights = []weight{
		{"192.168.1.100", 30},
		{"10.0.0.25", 25},
		{"172.16.0.50", 20},
		{"203.113.45.12", 15},
		{"45.76.189.3", 10},
	}
)

// Distribute splits total across the fixed bucket list of resource using the
// fixed weights. Counts are floored so they never sum above total, and zero
// buckets are dropped. A non-positive total distributes DefaultTotal. When
// total is too small for any weighted bucket, the first bucket gets all of it.
func Distribute(resource Resource, total int) []Bucket {
	if total <= 0 {
		total = DefaultTotal
	}

	weights := countryWeights
	if resource == Sources {
		weights = sourceWeights
	}

	buckets := make([]Bucket, 0, len(weights))
	for _, w := range weights {
		count := total * w.percent / 100
		if count <= 0 {
			continue
		}
		buckets = append(buckets, Bucket{
			Name:       w.name,
			Count:      count,
			Percentage: Percent(count, total),
		})
	}
	if len(buckets) == 0 {
		buckets = append(buckets, Bucket{Name: weights[0].name, Count: total, Percentage: 100})
	}
	return buckets
}

// Percent returns count/total*100 rounded to two decimals, 0 when total is 0
func Percent(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}

// IsUnknown reports whether name is the backend's unresolved sentinel
func IsUnknown(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, UnknownBucket)
}

// IsDegenerate reports whether names carry no informative bucket: either
// there are none, or every one of them is the Unknown sentinel.
func IsDegenerate(names []string) bool {
	for _, name := range names {
		if !IsUnknown(name) {
			return false
		}
	}
	return true
}

// Policy logs and counts every substitution
type Policy struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewPolicy creates a policy. Both arguments may be nil.
func NewPolicy(logger *zap.Logger, m *metrics.Metrics) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{logger: logger, metrics: m}
}

// Record logs the substitution of resource and counts it
func (p *Policy) Record(resource Resource, reason Reason, err error) {
	fields := []zap.Field{
		zap.String("resource", string(resource)),
		zap.String("reason", string(reason)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	p.logger.Warn("Serving fallback analytics", fields...)

	if p.metrics != nil {
		p.metrics.FallbacksServed.WithLabelValues(string(resource), string(reason)).Inc()
	}
}

// Apply runs fetch and returns its value unless it failed or degenerate
// reports the value as uninformative; then substitute builds the replacement
// from the live value (the zero value on error). The error never escapes.
// Cancellation still substitutes but is not recorded.
func Apply[T any](
	ctx context.Context,
	p *Policy,
	resource Resource,
	fetch func(ctx context.Context) (T, error),
	degenerate func(T) (bool, Reason),
	substitute func(live T) T,
) T {
	live, err := fetch(ctx)
	if err != nil {
		var zero T
		if !errors.Is(err, context.Canceled) {
			p.Record(resource, ReasonError, err)
		}
		return substitute(zero)
	}

	if degenerate != nil {
		if bad, reason := degenerate(live); bad {
			p.Record(resource, reason, nil)
			return substitute(live)
		}
	}
	return live
}
