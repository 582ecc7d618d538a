package app

import (
	"context"
	"fmt"
	"time"

	"github.com/labdesks/deskbook/internal/config"
	"github.com/labdesks/deskbook/internal/gateway"
	"github.com/labdesks/deskbook/internal/logger"
	"github.com/labdesks/deskbook/internal/models"
	"github.com/labdesks/deskbook/internal/session"
	"github.com/labdesks/deskbook/internal/store"
)

// App wires configuration, the API gateway and the session controller into
// a ready-to-use client.
type App struct {
	config   *config.Config
	settings *config.ClientSettings
	logger   *logger.Logger

	client     *gateway.Client
	cache      store.Store
	controller *session.Controller
}

func New(cfg *config.Config, settings *config.ClientSettings, log *logger.Logger) *App {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if log == nil {
		log = logger.New()
	}
	return &App{
		config:   cfg,
		settings: settings,
		logger:   log,
	}
}

// Initialize builds the gateway, logs in when credentials are configured,
// opens the snapshot cache and creates the controller for today.
func (a *App) Initialize(ctx context.Context) error {
	client := gateway.NewClient(a.config.ServerURL, a.settings.Timeout(), a.config.Insecure)

	if a.config.HasCredentials() {
		sess, err := client.Login(ctx, models.Credentials{
			Username: a.config.Username,
			Password: a.config.Password,
		})
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		client = client.WithSession(sess)
		a.logger.Info("Logged in", logger.User(sess.Username),
			logger.F("EXPIRES_AT", sess.ExpiresAt.Format(time.RFC3339)))
	}
	a.client = client

	if a.settings.Cache.Enabled {
		cache, err := store.NewSQLiteStore(a.settings.Cache.Path)
		if err != nil {
			return fmt.Errorf("failed to open snapshot cache: %w", err)
		}
		a.cache = cache

		cutoff := time.Now().AddDate(0, 0, -a.settings.Cache.RetentionDays).Format(models.DayFormat)
		pruned, err := cache.PruneBefore(cutoff)
		if err != nil {
			a.logger.Warn("Snapshot cache prune failed", logger.Error(err))
		} else if pruned > 0 {
			a.logger.Info("Pruned stale snapshots", logger.Count(pruned), logger.Day(cutoff))
		}
	}

	a.controller = session.NewController(a.logger, a.client, a.cache, "")
	return nil
}

// Controller returns the session controller. Nil before Initialize.
func (a *App) Controller() *session.Controller {
	return a.controller
}

// Client returns the API gateway. Nil before Initialize.
func (a *App) Client() *gateway.Client {
	return a.client
}

// Close releases the snapshot cache and revokes the session token.
func (a *App) Close(ctx context.Context) error {
	if a.client != nil && a.client.Session() != nil {
		if err := a.client.Logout(ctx); err != nil {
			a.logger.Warn("Logout failed", logger.Error(err))
		}
	}
	if a.cache == nil {
		return nil
	}
	if err := a.cache.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot cache: %w", err)
	}
	return nil
}
