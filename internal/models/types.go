package models

import "time"

// FaucetRequest is the body of a token request
type FaucetRequest struct {
	WalletAddress string `json:"walletAddress" validate:"required,sui_address"`
}

// FaucetResponse represents the response from a faucet request
type FaucetResponse struct {
	Success     bool    `json:"success"`
	TxHash      string  `json:"txHash,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Message     string  `json:"message,omitempty"`
	ExplorerURL string  `json:"explorerUrl,omitempty"`
}

// ErrorResponse represents an error body returned by the API
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// StatsRow is one row of /analytics/stats, grouped by request outcome
type StatsRow struct {
	ID          string  `json:"_id"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

// AnalyticsStats is the dashboard summary
type AnalyticsStats struct {
	TotalRequests       int               `json:"totalRequests"`
	TotalDistributed    float64           `json:"totalDistributed"`
	SuccessRate         int               `json:"successRate"`
	ActiveUsers24h      int               `json:"activeUsers24h"`
	AverageResponseTime float64           `json:"averageResponseTime"`
	RequestsOverTime    []DailyRequests   `json:"requestsOverTime"`
	TopCountries        []CountryRequests `json:"topCountries"`
	RecentTransactions  []Transaction     `json:"recentTransactions"`
}

// DailyRequests is one point of the requests-over-time series
type DailyRequests struct {
	Date     string `json:"date"`
	Requests int    `json:"requests"`
}

// CountryRequests is one bar of the top countries chart
type CountryRequests struct {
	Country  string `json:"country"`
	Requests int    `json:"requests"`
}

// CountryRow is a row of /analytics/top-countries
type CountryRow struct {
	Country      string  `json:"country"`
	Count        int     `json:"count"`
	SuccessCount int     `json:"successCount"`
	FailureCount int     `json:"failureCount"`
	Percentage   float64 `json:"percentage"`
}

// CountriesResponse is the envelope of /analytics/top-countries
type CountriesResponse struct {
	Countries         []CountryRow `json:"countries"`
	TotalTransactions int          `json:"totalTransactions"`
	DateRange         struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"dateRange"`
}

// TopCountry is the single busiest country
type TopCountry struct {
	Country    string  `json:"country"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SourceRow is a row of /analytics/top-sources
type SourceRow struct {
	IPAddress string `json:"ipAddress"`
	Count     int    `json:"count"`
}

// SourceShare is one slice of the request sources chart
type SourceShare struct {
	Source     string  `json:"source"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// GeoRow is a row of /analytics/geographic
type GeoRow struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

// GeoShare is one entry of the geographic breakdown
type GeoShare struct {
	Country    string  `json:"country"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// HourlyRow is a row of /analytics/hourly
type HourlyRow struct {
	Hour         int `json:"_id"`
	Count        int `json:"count"`
	SuccessCount int `json:"successCount"`
	FailureCount int `json:"failureCount"`
}

// PerformanceMetrics summarizes faucet health
type PerformanceMetrics struct {
	AverageResponseTime float64 `json:"averageResponseTime"`
	Uptime              float64 `json:"uptime"`
	ErrorRate           float64 `json:"errorRate"`
	Throughput          float64 `json:"throughput"`
}

// HistoryRow is a raw row of /analytics/history
type HistoryRow struct {
	ID               string   `json:"_id"`
	WalletAddress    string   `json:"walletAddress"`
	Amount           float64  `json:"amount"`
	NormalizedAmount *float64 `json:"normalizedAmount,omitempty"`
	TxHash           string   `json:"txHash"`
	Status           string   `json:"status"`
	CreatedAt        string   `json:"createdAt"`
	IPAddress        string   `json:"ipAddress,omitempty"`
}

// Transaction is the normalized transaction shape shown in tables
type Transaction struct {
	ID        int     `json:"id"`
	Address   string  `json:"address"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
	TxHash    string  `json:"txHash"`
	Status    string  `json:"status"`
}

// WalletTransaction is one entry of a wallet activity report
type WalletTransaction struct {
	TxHash    string  `json:"txHash"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
}

// WalletActivityReport aggregates the faucet activity of one address
type WalletActivityReport struct {
	Address             string              `json:"address"`
	TotalRequests       int                 `json:"totalRequests"`
	SuccessRate         float64             `json:"successRate"`
	LastActivity        string              `json:"lastActivity"`
	Transactions        []WalletTransaction `json:"transactions"`
	TotalAmount         float64             `json:"totalAmount"`
	Country             string              `json:"country,omitempty"`
	IPAddress           string              `json:"ipAddress,omitempty"`
	AverageResponseTime *float64            `json:"averageResponseTime,omitempty"`
}

// SystemSettings are the faucet's runtime settings
type SystemSettings struct {
	NormalizedAmount   float64 `json:"normalizedAmount" validate:"gt=0"`
	LimitPerIP         int     `json:"limitPerIp" validate:"gte=1"`
	TTLPerIP           int     `json:"ttlPerIp" validate:"gte=1"`
	IsFaucetEnabled    bool    `json:"isFaucetEnabled"`
	IsRateLimitEnabled bool    `json:"isRateLimitEnabled"`
}

// HealthStatus is the opaque health blob of the backend
type HealthStatus struct {
	Status  string         `json:"status"`
	Info    map[string]any `json:"info"`
	Error   map[string]any `json:"error"`
	Details map[string]any `json:"details"`
}

// ServerHealth is returned by the dashboard server's own health check
type ServerHealth struct {
	Status        string `json:"status"`
	Timestamp     int64  `json:"timestamp"`
	Authenticated bool   `json:"authenticated"`
	BreakerOpen   bool   `json:"breakerOpen"`
}

// SessionInfo describes the dashboard server's admin session
type SessionInfo struct {
	Authenticated bool           `json:"authenticated"`
	Token         string         `json:"token,omitempty"` // only returned by login
	User          map[string]any `json:"user,omitempty"`
	Subject       string         `json:"subject,omitempty"`
	ExpiresAt     *time.Time     `json:"expiresAt,omitempty"`
}

// LoginRequest holds admin credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse supports both the current and the legacy token field
type LoginResponse struct {
	AccessToken string         `json:"access_token,omitempty"`
	Token       string         `json:"token,omitempty"`
	User        map[string]any `json:"user,omitempty"`
}

// BearerToken returns access_token, falling back to the legacy token field
func (r LoginResponse) BearerToken() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// HistoryFilter narrows /analytics/history
type HistoryFilter struct {
	Limit         int
	WalletAddress string
	IPAddress     string
}

// AnalyticsOverview is the combined state of the authenticated analytics feed
type AnalyticsOverview struct {
	TopCountry  TopCountry         `json:"topCountry"`
	TopSources  []SourceShare      `json:"topSources"`
	Geographic  []GeoShare         `json:"geographic"`
	Performance PerformanceMetrics `json:"performance"`
}
