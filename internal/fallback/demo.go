package fallback

import (
	"math"
	"time"

	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
)

const (
	// SeriesDays is the fixed length of the requests-over-time series
	SeriesDays = 7

	dateLayout = "2006-01-02"

	demoCountry         = "Vietnam"
	demoIPAddress       = "192.168.1.100"
	demoAmount          = 1.0
	demoAvgResponseTime = 245.0
)

// demoOffsets are the ages of the synthetic wallet transactions, newest first
var demoOffsets = []time.Duration{
	time.Hour,
	6 * time.Hour,
	24 * time.Hour,
	3 * 24 * time.Hour,
	7 * 24 * time.Hour,
}

var demoTxHashes = []string{
	"0x5f2c8e1a9b3d4f6e7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f",
	"0x4e1b7d0f8a2c3e5d6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e",
	"0x3d0a6c9e7f1b2d4c5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d",
	"0x2c9f5b8d6e0a1c3b4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c",
	"0x1b8e4a7c5d9f0b2a3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b",
}

// PerformanceEstimate is shown when performance metrics are unavailable
func PerformanceEstimate() models.PerformanceMetrics {
	return models.PerformanceMetrics{
		AverageResponseTime: 250,
		Uptime:              99.9,
		ErrorRate:           0.2,
		Throughput:          12.5,
	}
}

// WalletReport is the fully populated demo report for address
func WalletReport(address string, now time.Time) models.WalletActivityReport {
	txs := make([]models.WalletTransaction, 0, len(demoOffsets))
	var total float64
	for i, offset := range demoOffsets {
		txs = append(txs, models.WalletTransaction{
			TxHash:    demoTxHashes[i],
			Amount:    demoAmount,
			Status:    "success",
			Timestamp: now.Add(-offset).UTC().Format(time.RFC3339),
		})
		total += demoAmount
	}

	avg := demoAvgResponseTime
	return models.WalletActivityReport{
		Address:             address,
		TotalRequests:       len(txs),
		SuccessRate:         100,
		LastActivity:        txs[0].Timestamp,
		Transactions:        txs,
		TotalAmount:         total,
		Country:             demoCountry,
		IPAddress:           demoIPAddress,
		AverageResponseTime: &avg,
	}
}

// LastSevenDays returns the last SeriesDays UTC calendar dates, oldest first,
// ending with the date of now
func LastSevenDays(now time.Time) []time.Time {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, 0, SeriesDays)
	for i := SeriesDays - 1; i >= 0; i-- {
		days = append(days, today.AddDate(0, 0, -i))
	}
	return days
}

// WeekdayFactor is the small weekday/weekend traffic pattern
func WeekdayFactor(day time.Time) float64 {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return 0.85
	default:
		return 1.05
	}
}

// Series spreads total evenly over the last seven days with the weekday
// pattern applied and no jitter
func Series(now time.Time, total int) []models.DailyRequests {
	if total <= 0 {
		total = DefaultTotal
	}
	average := total / SeriesDays

	out := make([]models.DailyRequests, 0, SeriesDays)
	for _, day := range LastSevenDays(now) {
		out = append(out, models.DailyRequests{
			Date:     day.Format(dateLayout),
			Requests: int(math.Round(float64(average) * WeekdayFactor(day))),
		})
	}
	return out
}

// FormatDate formats a series key
func FormatDate(day time.Time) string {
	return day.Format(dateLayout)
}
