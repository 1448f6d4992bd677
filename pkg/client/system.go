package client

import (
	"context"

	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
)

const settingsPath = "/api/v1/system-setting"

// SystemAPI reads faucet settings and backend health
type SystemAPI struct {
	public     *Caller
	authed     *Caller
	healthPath string
}

// GetSettings returns the publicly readable faucet settings. Server-side
// metadata (ids, timestamps) is dropped by decoding into SystemSettings.
func (s *SystemAPI) GetSettings(ctx context.Context) (*models.SystemSettings, error) {
	var settings models.SystemSettings
	if err := s.public.GetJSON(ctx, settingsPath, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings always fails: the backend has no settings write path yet
func (s *SystemAPI) UpdateSettings(_ context.Context, _ models.SystemSettings) (*models.SystemSettings, error) {
	return nil, ErrSettingsUpdateUnsupported
}

// GetHealth returns the backend health report as-is
func (s *SystemAPI) GetHealth(ctx context.Context) (*models.HealthStatus, error) {
	var health models.HealthStatus
	if err := s.authed.GetJSON(ctx, s.healthPath, nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}
