package client

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Giri-Aayush/sui-faucet-console/internal/fallback"
	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
	"github.com/sony/gobreaker/v2"
)

const (
	statsPath        = "/api/v1/analytics/stats"
	topCountriesPath = "/api/v1/analytics/top-countries"
	topCountryPath   = "/api/v1/analytics/top-country"
	topSourcesPath   = "/api/v1/analytics/top-sources"
	geographicPath   = "/api/v1/analytics/geographic"
	performancePath  = "/api/v1/analytics/performance"
	rateLimitsPath   = "/api/v1/analytics/rate-limits"
	historyPath      = "/api/v1/analytics/history"
	hourlyPath       = "/api/v1/analytics/hourly"
	walletPath       = "/api/v1/analytics/wallet/"

	// estimates for figures the stats endpoint does not provide
	activeUserRatio          = 0.7
	estimatedResponseTimeMs  = 250
	maxDailyJitter           = 10
	defaultTransactionAmount = 1.0
)

// AnalyticsAPI reads dashboard aggregates. Country, source, geographic and
// wallet reads never fail: errors and uninformative results are replaced by
// the fallback policy.
type AnalyticsAPI struct {
	caller  *Caller
	breaker *gobreaker.CircuitBreaker[any]
	policy  *fallback.Policy
	now     func() time.Time
	jitter  func() int
}

func (a *AnalyticsAPI) get(ctx context.Context, path, endpoint string, query url.Values, out any) error {
	_, err := a.breaker.Execute(func() (any, error) {
		body, err := a.caller.do(ctx, request{
			method:   http.MethodGet,
			path:     path,
			endpoint: endpoint,
			query:    query,
		})
		if err != nil {
			return nil, err
		}
		return nil, decode(body, out)
	})
	return err
}

// GetStats reduces the per-outcome rows into the dashboard summary
func (a *AnalyticsAPI) GetStats(ctx context.Context, days int) (*models.AnalyticsStats, error) {
	var rows []models.StatsRow
	if err := a.get(ctx, statsPath, statsPath, daysQuery(days), &rows); err != nil {
		return nil, err
	}
	return reduceStats(rows), nil
}

func reduceStats(rows []models.StatsRow) *models.AnalyticsStats {
	var success, failed models.StatsRow
	for _, row := range rows {
		switch row.ID {
		case "success":
			success = row
		case "failed":
			failed = row
		}
	}

	total := success.Count + failed.Count
	successRate := 0
	if total > 0 {
		successRate = int(math.Round(float64(success.Count) / float64(total) * 100))
	}

	return &models.AnalyticsStats{
		TotalRequests:       total,
		TotalDistributed:    success.TotalAmount + failed.TotalAmount,
		SuccessRate:         successRate,
		ActiveUsers24h:      int(math.Floor(float64(total) * activeUserRatio)),
		AverageResponseTime: estimatedResponseTimeMs,
		RequestsOverTime:    []models.DailyRequests{},
		TopCountries:        []models.CountryRequests{},
		RecentTransactions:  []models.Transaction{},
	}
}

// GetTopCountries returns up to limit countries by request count
func (a *AnalyticsAPI) GetTopCountries(ctx context.Context, days, limit int) []models.CountryRequests {
	query := daysQuery(days)
	query.Set("limit", strconv.Itoa(limit))

	resp := fallback.Apply(ctx, a.policy, fallback.Countries,
		func(ctx context.Context) (models.CountriesResponse, error) {
			var resp models.CountriesResponse
			err := a.get(ctx, topCountriesPath, topCountriesPath, query, &resp)
			return resp, err
		},
		func(resp models.CountriesResponse) (bool, fallback.Reason) {
			names := make([]string, 0, len(resp.Countries))
			for _, c := range resp.Countries {
				names = append(names, c.Country)
			}
			return degenerate(names)
		},
		func(live models.CountriesResponse) models.CountriesResponse {
			total := live.TotalTransactions
			if total <= 0 {
				for _, c := range live.Countries {
					total += c.Count
				}
			}
			var out models.CountriesResponse
			for _, b := range fallback.Distribute(fallback.Countries, total) {
				out.Countries = append(out.Countries, models.CountryRow{
					Country:    b.Name,
					Count:      b.Count,
					Percentage: b.Percentage,
				})
			}
			return out
		},
	)

	out := make([]models.CountryRequests, 0, len(resp.Countries))
	for _, c := range resp.Countries {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, models.CountryRequests{Country: c.Country, Requests: c.Count})
	}
	return out
}

// GetTopCountry returns the single busiest country
func (a *AnalyticsAPI) GetTopCountry(ctx context.Context, days int) models.TopCountry {
	return fallback.Apply(ctx, a.policy, fallback.TopCountry,
		func(ctx context.Context) (models.TopCountry, error) {
			var top models.TopCountry
			err := a.get(ctx, topCountryPath, topCountryPath, daysQuery(days), &top)
			return top, err
		},
		func(top models.TopCountry) (bool, fallback.Reason) {
			return degenerate([]string{top.Country})
		},
		func(live models.TopCountry) models.TopCountry {
			buckets := fallback.Distribute(fallback.TopCountry, topCountryTotal(live))
			if len(buckets) == 0 {
				return models.TopCountry{}
			}
			first := buckets[0]
			return models.TopCountry{Country: first.Name, Count: first.Count, Percentage: first.Percentage}
		},
	)
}

// GetTopSources returns up to limit requesting IPs with their share
func (a *AnalyticsAPI) GetTopSources(ctx context.Context, days, limit int) []models.SourceShare {
	query := daysQuery(days)
	query.Set("limit", strconv.Itoa(limit))

	rows := fallback.Apply(ctx, a.policy, fallback.Sources,
		func(ctx context.Context) ([]models.SourceRow, error) {
			var rows []models.SourceRow
			err := a.get(ctx, topSourcesPath, topSourcesPath, query, &rows)
			return rows, err
		},
		func(rows []models.SourceRow) (bool, fallback.Reason) {
			names := make([]string, 0, len(rows))
			for _, r := range rows {
				names = append(names, r.IPAddress)
			}
			return degenerate(names)
		},
		func(live []models.SourceRow) []models.SourceRow {
			var out []models.SourceRow
			for _, b := range fallback.Distribute(fallback.Sources, sumSources(live)) {
				out = append(out, models.SourceRow{IPAddress: b.Name, Count: b.Count})
			}
			return out
		},
	)

	total := sumSources(rows)
	out := make([]models.SourceShare, 0, len(rows))
	for _, r := range rows {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, models.SourceShare{
			Source:     r.IPAddress,
			Count:      r.Count,
			Percentage: fallback.Percent(r.Count, total),
		})
	}
	return out
}

// GetGeographic returns the per-country share of requests
func (a *AnalyticsAPI) GetGeographic(ctx context.Context, days int) []models.GeoShare {
	rows := fallback.Apply(ctx, a.policy, fallback.Geographic,
		func(ctx context.Context) ([]models.GeoRow, error) {
			var rows []models.GeoRow
			err := a.get(ctx, geographicPath, geographicPath, daysQuery(days), &rows)
			return rows, err
		},
		func(rows []models.GeoRow) (bool, fallback.Reason) {
			names := make([]string, 0, len(rows))
			for _, r := range rows {
				names = append(names, r.ID)
			}
			return degenerate(names)
		},
		func(live []models.GeoRow) []models.GeoRow {
			var out []models.GeoRow
			for _, b := range fallback.Distribute(fallback.Geographic, sumGeo(live)) {
				out = append(out, models.GeoRow{ID: b.Name, Count: b.Count})
			}
			return out
		},
	)

	total := sumGeo(rows)
	out := make([]models.GeoShare, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.GeoShare{
			Country:    r.ID,
			Count:      r.Count,
			Percentage: fallback.Percent(r.Count, total),
		})
	}
	return out
}

// GetPerformance returns response time, uptime, error rate and throughput
func (a *AnalyticsAPI) GetPerformance(ctx context.Context, days int) (*models.PerformanceMetrics, error) {
	var perf models.PerformanceMetrics
	if err := a.get(ctx, performancePath, performancePath, daysQuery(days), &perf); err != nil {
		return nil, err
	}
	return &perf, nil
}

// GetRateLimits returns raw rate limit violation rows
func (a *AnalyticsAPI) GetRateLimits(ctx context.Context, days int) ([]map[string]any, error) {
	var rows []map[string]any
	if err := a.get(ctx, rateLimitsPath, rateLimitsPath, daysQuery(days), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetHistory returns recent transactions, optionally filtered by wallet or IP
func (a *AnalyticsAPI) GetHistory(ctx context.Context, filter models.HistoryFilter) ([]models.Transaction, error) {
	query := url.Values{}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.WalletAddress != "" {
		query.Set("walletAddress", filter.WalletAddress)
	}
	if filter.IPAddress != "" {
		query.Set("ipAddress", filter.IPAddress)
	}

	var rows []models.HistoryRow
	if err := a.get(ctx, historyPath, historyPath, query, &rows); err != nil {
		return nil, err
	}
	return normalizeHistory(rows), nil
}

// GetTransactionHistory returns the latest limit transactions
func (a *AnalyticsAPI) GetTransactionHistory(ctx context.Context, limit int) ([]models.Transaction, error) {
	return a.GetHistory(ctx, models.HistoryFilter{Limit: limit})
}

func normalizeHistory(rows []models.HistoryRow) []models.Transaction {
	out := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		amount := defaultTransactionAmount
		if row.NormalizedAmount != nil {
			amount = *row.NormalizedAmount
		}
		out = append(out, models.Transaction{
			ID:        i + 1,
			Address:   row.WalletAddress,
			Amount:    amount,
			Timestamp: row.CreatedAt,
			TxHash:    row.TxHash,
			Status:    row.Status,
		})
	}
	return out
}

// GetHourly builds the seven-day requests series. The backend only reports
// per-hour totals, so the total is spread over the last seven calendar days
// with the weekday pattern and a bounded random jitter.
func (a *AnalyticsAPI) GetHourly(ctx context.Context, days int) ([]models.DailyRequests, error) {
	var rows []models.HourlyRow
	if err := a.get(ctx, hourlyPath, hourlyPath, daysQuery(days), &rows); err != nil {
		return nil, err
	}

	total := 0
	for _, row := range rows {
		total += row.Count
	}
	average := total / fallback.SeriesDays

	out := make([]models.DailyRequests, 0, fallback.SeriesDays)
	for _, day := range fallback.LastSevenDays(a.now()) {
		requests := int(math.Round(float64(average)*fallback.WeekdayFactor(day))) + a.jitter()
		if requests < 0 {
			requests = 0
		}
		out = append(out, models.DailyRequests{Date: fallback.FormatDate(day), Requests: requests})
	}
	return out, nil
}

// GetWalletActivity returns the activity report of one address. An empty
// report or a failed call yields the demo report instead.
func (a *AnalyticsAPI) GetWalletActivity(ctx context.Context, address string, days int) models.WalletActivityReport {
	return fallback.Apply(ctx, a.policy, fallback.WalletActivity,
		func(ctx context.Context) (models.WalletActivityReport, error) {
			var report models.WalletActivityReport
			err := a.get(ctx, walletPath+url.PathEscape(address), walletPath+":address", daysQuery(days), &report)
			if report.Address == "" {
				report.Address = address
			}
			return report, err
		},
		func(report models.WalletActivityReport) (bool, fallback.Reason) {
			return len(report.Transactions) == 0, fallback.ReasonEmpty
		},
		func(models.WalletActivityReport) models.WalletActivityReport {
			return fallback.WalletReport(address, a.now())
		},
	)
}

// BreakerOpen reports whether analytics reads are currently short-circuited
func (a *AnalyticsAPI) BreakerOpen() bool {
	return a.breaker.State() == gobreaker.StateOpen
}

func degenerate(names []string) (bool, fallback.Reason) {
	if len(names) == 0 {
		return true, fallback.ReasonEmpty
	}
	if fallback.IsDegenerate(names) {
		return true, fallback.ReasonUnknownOnly
	}
	return false, ""
}

func sumSources(rows []models.SourceRow) int {
	total := 0
	for _, r := range rows {
		total += r.Count
	}
	return total
}

func sumGeo(rows []models.GeoRow) int {
	total := 0
	for _, r := range rows {
		total += r.Count
	}
	return total
}

// topCountryTotal recovers the request total from the busiest country's count
// and share. Shares too small to invert fall back to the count itself.
func topCountryTotal(top models.TopCountry) int {
	if top.Percentage <= 0 {
		return top.Count
	}
	total := math.Round(float64(top.Count) * 100 / top.Percentage)
	if math.IsNaN(total) || math.IsInf(total, 0) || total > math.MaxInt32 {
		return top.Count
	}
	return int(total)
}

// countsAsFailure decides what trips the breaker: only an unreachable or
// failing backend, never a 4xx the backend answered deliberately.
func countsAsFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err != nil
	}
	switch apiErr.Kind {
	case KindNetwork:
		return true
	case KindHTTP:
		return apiErr.Status >= 500
	}
	return false
}
