package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Giri-Aayush/sui-faucet-console/internal/fallback"
	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	t.Run("reduces success and failed rows", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/analytics/stats", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "7", r.URL.Query().Get("days"))
			writeJSON(w, 200, `[{"_id":"success","count":8,"totalAmount":80},{"_id":"failed","count":2,"totalAmount":0}]`)
		})
		env := newTestEnv(t, mux)

		stats, err := env.client.Analytics.GetStats(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, 10, stats.TotalRequests)
		assert.Equal(t, 80, stats.SuccessRate)
		assert.Equal(t, 7, stats.ActiveUsers24h)
		assert.Equal(t, 80.0, stats.TotalDistributed)
		assert.Equal(t, 250.0, stats.AverageResponseTime)
		assert.NotNil(t, stats.RequestsOverTime)
		assert.Empty(t, stats.TopCountries)
	})

	t.Run("no rows", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/analytics/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `[]`)
		})
		env := newTestEnv(t, mux)

		stats, err := env.client.Analytics.GetStats(context.Background(), 7)
		require.NoError(t, err)
		assert.Zero(t, stats.TotalRequests)
		assert.Zero(t, stats.SuccessRate)
		assert.Zero(t, stats.ActiveUsers24h)
	})

	t.Run("errors are not substituted", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/analytics/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 500, `{"message":"boom"}`)
		})
		env := newTestEnv(t, mux)

		_, err := env.client.Analytics.GetStats(context.Background(), 7)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrHTTP)
	})
}

func TestGetTopCountries(t *testing.T) {
	t.Run("live data passes through", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/analytics/top-countries", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "3", r.URL.Query().Get("limit"))
			writeJSON(w, 200, `{"countries":[{"country":"Germany","count":40},{"country":"Unknown","count":10},{"country":"France","count":5}],"totalTransactions":55}`)
		})
		env := newTestEnv(t, mux)

		got := env.client.Analytics.GetTopCountries(context.Background(), 7, 3)
		assert.Equal(t, []models.CountryRequests{
			{Country: "Germany", Requests: 40},
			{Country: "Unknown", Requests: 10},
			{Country: "France", Requests: 5},
		}, got)
	})

	t.Run("unknown only is replaced", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/analytics/top-countries", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"countries":[{"country":"Unknown","count":200}],"totalTransactions":200}`)
		})
		env := newTestEnv(t, mux)

		got := env.client.Analytics.GetTopCountries(context.Background(), 7, 5)
		require.NotEmpty(t, got)

		sum := 0
		for _, c := range got {
			assert.NotEqual(t, fallback.UnknownBucket, c.Country)
			assert.Positive(t, c.Requests)
			sum += c.Requests
		}
		assert.LessOrEqual(t, sum, 200)
		assert.Equal(t, "Vietnam", got[0].Country)
		assert.Equal(t, 70, got[0].Requests)
	})

	t.Run("error is replaced", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/analytics/top-countries", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 500, `{}`)
		})
		env := newTestEnv(t, mux)

		got := env.client.Analytics.GetTopCountries(context.Background(), 7, 2)
		assert.Len(t, got, 2)
		assert.Equal(t, 350, got[0].Requests, "no live total distributes the default total")
	})
}

func TestGetTopCountry(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCnt  int
		wantPerc float64
	}{
		{name: "unknown share of 100", body: `{"country":"Unknown","count":50,"percentage":50}`, wantCnt: 35, wantPerc: 35},
		{name: "single unknown request", body: `{"country":"Unknown","count":1,"percentage":100}`, wantCnt: 1, wantPerc: 100},
		{name: "tiny share uses the count", body: `{"country":"Unknown","count":5,"percentage":1e-300}`, wantCnt: 1, wantPerc: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/v1/analytics/top-country", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, 200, tt.body)
			})
			env := newTestEnv(t, mux)

			top := env.client.Analytics.GetTopCountry(context.Background(), 7)
			assert.Equal(t, "Vietnam", top.Country)
			assert.Equal(t, tt.wantCnt, top.Count)
			assert.Equal(t, tt.wantPerc, top.Percentage)
		})
	}
}

func TestTopCountryTotal(t *testing.T) {
	assert.Equal(t, 100, topCountryTotal(models.TopCountry{Count: 50, Percentage: 50}))
	assert.Equal(t, 7, topCountryTotal(models.TopCountry{Count: 7}))
	assert.Equal(t, 3, topCountryTotal(models.TopCountry{Count: 3, Percentage: 1e-300}))
	assert.Equal(t, 3, topCountryTotal(models.TopCountry{Count: 3, Percentage: 1e-9}))
}

func TestGetTopCountriesSmallUnknownTotal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analytics/top-countries", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"countries":[{"country":"Unknown","count":2}],"totalTransactions":2}`)
	})
	env := newTestEnv(t, mux)

	got := env.client.Analytics.GetTopCountries(context.Background(), 7, 5)
	require.Len(t, got, 1)
	assert.Equal(t, models.CountryRequests{Country: "Vietnam", Requests: 2}, got[0])
}

func TestGetTopSources(t *testing.T) {
	t.Run("live data gets percentages", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/analytics/top-sources", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `[{"ipAddress":"1.2.3.4","count":3},{"ipAddress":"5.6.7.8","count":1}]`)
		})
		env := newTestEnv(t, mux)

		got := env.client.Analytics.GetTopSources(context.Background(), 7, 5)
		require.Len(t, got, 2)
		assert.Equal(t, models.SourceShare{Source: "1.2.3.4", Count: 3, Percentage: 75}, got[0])
		assert.Equal(t, 25.0, got[1].Percentage)
	})

	t.Run("empty is replaced", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/analytics/top-sources", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `[]`)
		})
		env := newTestEnv(t, mux)

		got := env.client.Analytics.GetTopSources(context.Background(), 7, 5)
		require.Len(t, got, 5)
		assert.Equal(t, "192.168.1.100", got[0].Source)
		assert.Equal(t, 300, got[0].Count)
		assert.Equal(t, 30.0, got[0].Percentage)
	})
}

func TestGetGeographic(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analytics/geographic", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `[{"_id":"Unknown","count":100},{"_id":"","count":20}]`)
	})
	env := newTestEnv(t, mux)

	got := env.client.Analytics.GetGeographic(context.Background(), 7)
	require.NotEmpty(t, got)
	sum := 0
	for _, g := range got {
		assert.False(t, fallback.IsUnknown(g.Country))
		sum += g.Count
	}
	assert.LessOrEqual(t, sum, 120)
}

func TestGetHistoryNormalizesRows(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analytics/history", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "0xabc", r.URL.Query().Get("walletAddress"))
		writeJSON(w, 200, `[
			{"_id":"a","walletAddress":"0xabc","amount":1000000000,"normalizedAmount":0.5,"txHash":"0x1","status":"success","createdAt":"2025-03-10T10:00:00Z"},
			{"_id":"b","walletAddress":"0xabc","amount":1000000000,"txHash":"0x2","status":"failed","createdAt":"2025-03-09T10:00:00Z"}
		]`)
	})
	env := newTestEnv(t, mux)

	txs, err := env.client.Analytics.GetHistory(context.Background(), models.HistoryFilter{Limit: 10, WalletAddress: "0xabc"})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, models.Transaction{
		ID: 1, Address: "0xabc", Amount: 0.5, Timestamp: "2025-03-10T10:00:00Z", TxHash: "0x1", Status: "success",
	}, txs[0])
	assert.Equal(t, 2, txs[1].ID)
	assert.Equal(t, 1.0, txs[1].Amount, "missing normalizedAmount defaults to one token")
}

func TestGetHourly(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analytics/hourly", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `[{"_id":9,"count":400},{"_id":15,"count":300}]`)
	})

	t.Run("weekday pattern", func(t *testing.T) {
		env := newTestEnv(t, mux)

		series, err := env.client.Analytics.GetHourly(context.Background(), 7)
		require.NoError(t, err)
		require.Len(t, series, 7)
		assert.Equal(t, "2025-03-04", series[0].Date)
		assert.Equal(t, "2025-03-10", series[6].Date)
		for _, point := range series {
			day, err := time.Parse("2006-01-02", point.Date)
			require.NoError(t, err)
			if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				assert.Equal(t, 85, point.Requests)
			} else {
				assert.Equal(t, 105, point.Requests)
			}
		}
	})

	t.Run("never negative", func(t *testing.T) {
		env := newTestEnv(t, mux, func(o *Options) {
			o.Jitter = func() int { return -1000 }
		})

		series, err := env.client.Analytics.GetHourly(context.Background(), 7)
		require.NoError(t, err)
		for _, point := range series {
			assert.Zero(t, point.Requests)
		}
	})
}

func TestGetWalletActivity(t *testing.T) {
	const address = "0x" + "ab" + "0000000000000000000000000000000000000000000000000000000000cd"

	t.Run("live report", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/analytics/wallet/"+address, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "30", r.URL.Query().Get("days"))
			writeJSON(w, 200, `{"address":"`+address+`","totalRequests":1,"successRate":100,"transactions":[{"txHash":"0x9","amount":1,"status":"success","timestamp":"2025-03-10T09:00:00Z"}],"totalAmount":1}`)
		})
		env := newTestEnv(t, mux)

		report := env.client.Analytics.GetWalletActivity(context.Background(), address, 30)
		assert.Equal(t, 1, report.TotalRequests)
		assert.Equal(t, "0x9", report.Transactions[0].TxHash)
		assert.Nil(t, report.AverageResponseTime)
	})

	for name, handler := range map[string]http.HandlerFunc{
		"empty report": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"address":"`+address+`","totalRequests":0,"transactions":[]}`)
		},
		"server error": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 500, `{"message":"boom"}`)
		},
	} {
		t.Run(name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/v1/analytics/wallet/"+address, handler)
			env := newTestEnv(t, mux)

			report := env.client.Analytics.GetWalletActivity(context.Background(), address, 30)
			assert.Equal(t, fallback.WalletReport(address, fixedNow), report)
			assert.Len(t, report.Transactions, 5)
			assert.Equal(t, 5.0, report.TotalAmount)
		})
	}
}

func TestBreakerShortCircuitsAnalytics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analytics/top-sources", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 502, `{}`)
	})
	env := newTestEnv(t, mux, func(o *Options) {
		o.BreakerFailureThreshold = 2
		o.BreakerCooldown = time.Hour
	})
	ctx := context.Background()

	env.client.Analytics.GetTopSources(ctx, 7, 5)
	env.client.Analytics.GetTopSources(ctx, 7, 5)
	require.True(t, env.client.Analytics.BreakerOpen())
	assert.Equal(t, int64(2), env.hits.Load())

	got := env.client.Analytics.GetTopSources(ctx, 7, 5)
	assert.Len(t, got, 5, "open breaker still serves the substitute")
	assert.Equal(t, int64(2), env.hits.Load())
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analytics/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 400, `{"message":"bad days"}`)
	})
	env := newTestEnv(t, mux, func(o *Options) {
		o.BreakerFailureThreshold = 1
	})

	for i := 0; i < 3; i++ {
		_, err := env.client.Analytics.GetStats(context.Background(), -1)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}
	assert.False(t, env.client.Analytics.BreakerOpen())
}

func TestGetPerformanceAndRateLimits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analytics/performance", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "30", r.URL.Query().Get("days"))
		writeJSON(w, 200, `{"averageResponseTime":120.5,"uptime":99.9,"errorRate":0.4,"throughput":12}`)
	})
	mux.HandleFunc("/api/v1/analytics/rate-limits", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `[{"ipAddress":"10.0.0.1","violations":3}]`)
	})
	env := newTestEnv(t, mux)

	perf, err := env.client.Analytics.GetPerformance(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, models.PerformanceMetrics{AverageResponseTime: 120.5, Uptime: 99.9, ErrorRate: 0.4, Throughput: 12}, *perf)

	rows, err := env.client.Analytics.GetRateLimits(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "10.0.0.1", rows[0]["ipAddress"])
}

func TestCancelledCallsDoNotTripBreaker(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analytics/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `[]`)
	})
	env := newTestEnv(t, mux, func(o *Options) {
		o.BreakerFailureThreshold = 1
		o.BreakerCooldown = time.Hour
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 3; i++ {
		_, err := env.client.Analytics.GetStats(ctx, 7)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrNetwork)
	}
	assert.False(t, env.client.Analytics.BreakerOpen())

	_, err := env.client.Analytics.GetStats(context.Background(), 7)
	assert.NoError(t, err)
}
