package dashboard

import (
	"github.com/Giri-Aayush/sui-faucet-console/internal/session"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/client"
)

var (
	_ StatsSource     = (*client.AnalyticsAPI)(nil)
	_ AnalyticsSource = (*client.AnalyticsAPI)(nil)
	_ SettingsSource  = (*client.SystemAPI)(nil)
	_ TokenHolder     = (*session.Session)(nil)
)
