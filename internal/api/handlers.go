package api

import (
	"errors"
	"strings"
	"time"

	"github.com/Giri-Aayush/sui-faucet-console/internal/config"
	"github.com/Giri-Aayush/sui-faucet-console/internal/dashboard"
	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
	"github.com/Giri-Aayush/sui-faucet-console/internal/poller"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/client"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler contains dependencies for API handlers
type Handler struct {
	config    *config.Config
	logger    *zap.Logger
	client    *client.Client
	stats     *dashboard.StatsFeed
	analytics *dashboard.AnalyticsFeed
	settings  *dashboard.SettingsEditor
}

// NewHandler creates a new API handler
func NewHandler(
	cfg *config.Config,
	logger *zap.Logger,
	c *client.Client,
	stats *dashboard.StatsFeed,
	analytics *dashboard.AnalyticsFeed,
	settings *dashboard.SettingsEditor,
) *Handler {
	return &Handler{
		config:    cfg,
		logger:    logger,
		client:    c,
		stats:     stats,
		analytics: analytics,
		settings:  settings,
	}
}

// FeedState is the JSON view of a poller state
type FeedState[T any] struct {
	Data      *T         `json:"data"`
	Loading   bool       `json:"loading"`
	Error     string     `json:"error,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func toFeedState[T any](s poller.State[T]) FeedState[T] {
	out := FeedState[T]{Loading: s.Loading}
	if s.HasData {
		data := s.Data
		out.Data = &data
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}

// Health returns the health status of the dashboard server itself
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(models.ServerHealth{
		Status:        "ok",
		Timestamp:     time.Now().Unix(),
		Authenticated: h.client.Auth.IsAuthenticated(),
		BreakerOpen:   h.client.Analytics.BreakerOpen(),
	})
}

// RequireSession admits only callers presenting the active admin token as
// a bearer token
func (h *Handler) RequireSession(c *fiber.Ctx) error {
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok || !h.client.Auth.HoldsToken(strings.TrimSpace(token)) {
		h.logger.Debug("Rejected admin request",
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		return h.writeError(c, dashboard.ErrNotAuthenticated)
	}
	return c.Next()
}

// GetStats returns the latest public dashboard snapshot
func (h *Handler) GetStats(c *fiber.Ctx) error {
	state := h.stats.State()
	if !state.HasData && state.Err != nil {
		return h.writeError(c, state.Err)
	}
	return c.JSON(toFeedState(state))
}

// GetAnalytics returns the latest admin analytics snapshot
func (h *Handler) GetAnalytics(c *fiber.Ctx) error {
	state := h.analytics.State()
	if state.Err != nil && (!state.HasData || errors.Is(state.Err, dashboard.ErrNotAuthenticated)) {
		return h.writeError(c, state.Err)
	}
	return c.JSON(toFeedState(state))
}

// Refresh schedules an out-of-band cycle of both feeds
func (h *Handler) Refresh(c *fiber.Ctx) error {
	h.stats.Refresh()
	h.analytics.Refresh()
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Refresh scheduled",
	})
}

// GetWalletActivity returns the activity report of one address
func (h *Handler) GetWalletActivity(c *fiber.Ctx) error {
	address := strings.TrimSpace(c.Params("address"))
	if err := utils.ValidateSuiAddress(address); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "Invalid address: " + err.Error(),
			Error:   string(client.KindInvalidRequest),
		})
	}

	days := c.QueryInt("days", h.config.AnalyticsDays)
	if days <= 0 {
		days = h.config.AnalyticsDays
	}

	report := h.client.Analytics.GetWalletActivity(c.UserContext(), address, days)
	return c.JSON(report)
}

// RequestTokens forwards a faucet request
func (h *Handler) RequestTokens(c *fiber.Ctx) error {
	var req models.FaucetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "Invalid request body",
			Error:   string(client.KindInvalidRequest),
		})
	}

	resp, err := h.client.Faucet.RequestTokens(c.UserContext(), req.WalletAddress)
	if err != nil {
		h.logger.Warn("Faucet request failed",
			zap.String("address", req.WalletAddress),
			zap.String("ip", c.IP()),
			zap.Error(err),
		)
		return h.writeError(c, err)
	}

	if resp.TxHash != "" {
		resp.ExplorerURL = h.config.GetExplorerURL(resp.TxHash)
	}

	h.logger.Info("Tokens requested",
		zap.String("address", req.WalletAddress),
		zap.String("tx_hash", resp.TxHash),
	)
	return c.JSON(resp)
}

// Login opens the server-side admin session
func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "Invalid request body",
			Error:   string(client.KindInvalidRequest),
		})
	}

	resp, err := h.client.Auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return h.writeError(c, err)
	}
	h.analytics.Refresh()

	info := h.sessionInfo()
	info.Token = resp.BearerToken()
	info.User = resp.User
	return c.JSON(info)
}

// Logout drops the admin session
func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.client.Auth.Logout(c.UserContext()); err != nil {
		h.logger.Error("Failed to clear session store", zap.Error(err))
	}
	h.analytics.Refresh()
	return c.JSON(h.sessionInfo())
}

func (h *Handler) sessionInfo() models.SessionInfo {
	info := models.SessionInfo{Authenticated: h.client.Auth.IsAuthenticated()}
	if !info.Authenticated {
		return info
	}
	if claims, err := h.client.Auth.Claims(); err == nil {
		info.Subject = claims.Subject
		info.ExpiresAt = claims.ExpiresAt
	}
	return info
}

// GetSettings reloads and returns the faucet settings
func (h *Handler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Load(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(settings)
}

// UpdateSettings validates and submits new settings
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	var req models.SystemSettings
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "Invalid request body",
			Error:   string(client.KindInvalidRequest),
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: err.Error(),
			Error:   string(client.KindInvalidRequest),
		})
	}

	ctx := c.UserContext()
	if _, ok := h.settings.Loaded(); !ok {
		if _, err := h.settings.Load(ctx); err != nil {
			return h.writeError(c, err)
		}
	}
	if err := h.settings.Edit(func(s *models.SystemSettings) { *s = req }); err != nil {
		return h.writeError(c, err)
	}

	saved, err := h.settings.Save(ctx)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(saved)
}

// writeError maps client and feed errors onto HTTP responses
func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	kind := "internal_error"

	var apiErr *client.Error
	switch {
	case errors.As(err, &apiErr):
		kind = string(apiErr.Kind)
		switch apiErr.Kind {
		case client.KindRateLimited:
			status = fiber.StatusTooManyRequests
		case client.KindInvalidRequest:
			status = fiber.StatusBadRequest
		case client.KindUnauthorized:
			status = fiber.StatusUnauthorized
		default:
			status = fiber.StatusBadGateway
		}
	case errors.Is(err, dashboard.ErrNotAuthenticated):
		status = fiber.StatusUnauthorized
		kind = string(client.KindUnauthorized)
	case errors.Is(err, client.ErrSettingsUpdateUnsupported):
		status = fiber.StatusNotImplemented
		kind = "not_supported"
	case errors.Is(err, client.ErrMissingToken):
		status = fiber.StatusBadGateway
		kind = string(client.KindHTTP)
	default:
		h.logger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Message: err.Error(),
		Error:   kind,
	})
}
