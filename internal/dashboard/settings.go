package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/utils"
	"go.uber.org/zap"
)

// ErrSettingsNotLoaded is returned when editing before the first Load
var ErrSettingsNotLoaded = errors.New("settings have not been loaded")

// SettingsSource reads and writes faucet settings
type SettingsSource interface {
	GetSettings(ctx context.Context) (*models.SystemSettings, error)
	UpdateSettings(ctx context.Context, settings models.SystemSettings) (*models.SystemSettings, error)
}

// SettingsEditor holds the loaded settings and a local draft
type SettingsEditor struct {
	source SettingsSource
	logger *zap.Logger

	mu     sync.Mutex
	loaded *models.SystemSettings
	draft  models.SystemSettings
}

// NewSettingsEditor creates an editor. Nothing is fetched until Load.
func NewSettingsEditor(source SettingsSource, logger *zap.Logger) *SettingsEditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsEditor{source: source, logger: logger}
}

// Load fetches the current settings and discards any draft
func (e *SettingsEditor) Load(ctx context.Context) (models.SystemSettings, error) {
	settings, err := e.source.GetSettings(ctx)
	if err != nil {
		return models.SystemSettings{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	loaded := *settings
	e.loaded = &loaded
	e.draft = loaded
	return loaded, nil
}

// Loaded returns the last loaded settings
func (e *SettingsEditor) Loaded() (models.SystemSettings, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded == nil {
		return models.SystemSettings{}, false
	}
	return *e.loaded, true
}

// Draft returns the local copy
func (e *SettingsEditor) Draft() models.SystemSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Edit applies fn to the draft
func (e *SettingsEditor) Edit(fn func(s *models.SystemSettings)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded == nil {
		return ErrSettingsNotLoaded
	}
	fn(&e.draft)
	return nil
}

// Dirty reports whether the draft differs from the loaded settings
func (e *SettingsEditor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded != nil && e.draft != *e.loaded
}

// Reset drops local edits
func (e *SettingsEditor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded != nil {
		e.draft = *e.loaded
	}
}

// Validate checks the draft
func (e *SettingsEditor) Validate() error {
	return utils.ValidateStruct(e.Draft())
}

// Save validates and submits the draft. The draft is kept when the backend
// rejects it.
func (e *SettingsEditor) Save(ctx context.Context) (models.SystemSettings, error) {
	e.mu.Lock()
	if e.loaded == nil {
		e.mu.Unlock()
		return models.SystemSettings{}, ErrSettingsNotLoaded
	}
	draft := e.draft
	e.mu.Unlock()

	if err := utils.ValidateStruct(draft); err != nil {
		return models.SystemSettings{}, err
	}

	saved, err := e.source.UpdateSettings(ctx, draft)
	if err != nil {
		e.logger.Warn("Settings update rejected", zap.Error(err))
		return models.SystemSettings{}, err
	}
	if saved == nil {
		saved = &draft
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loaded = saved
	e.draft = *saved
	return *saved, nil
}
