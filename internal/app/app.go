// Package app owns the service lifecycle: startup ordering, the HTTP
// server, and graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lingo-gate/internal/backend"
	"lingo-gate/internal/cache"
	"lingo-gate/internal/dictionary"
	"lingo-gate/internal/history"
	"lingo-gate/internal/i18n"
	"lingo-gate/internal/services"
	"lingo-gate/internal/types"
	"lingo-gate/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"
	"gorm.io/gorm"
)

// AppParams collects the dependencies the lifecycle manages.
type AppParams struct {
	dig.In

	Engine        *gin.Engine
	ConfigManager types.ConfigManager
	Dictionary    *dictionary.Service
	History       *history.Store
	Cache         cache.Cache
	WarmKeeper    *backend.WarmKeeper
	LogService    *services.TranslationLogService
	DB            *gorm.DB
}

// App is the running service.
type App struct {
	params     AppParams
	httpServer *http.Server
}

// NewApp creates the application from its wired dependencies.
func NewApp(params AppParams) *App {
	return &App{params: params}
}

// Start brings every component up in order and begins serving.
func (a *App) Start() error {
	utils.SetupLogger(a.params.ConfigManager)

	if err := i18n.Init(); err != nil {
		return fmt.Errorf("failed to initialize i18n: %w", err)
	}

	a.params.ConfigManager.DisplayServerConfig()

	if err := a.params.Dictionary.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize dictionaries: %w", err)
	}
	a.params.History.Initialize()
	a.params.LogService.Start()
	a.params.WarmKeeper.Start()

	serverConfig := a.params.ConfigManager.GetEffectiveServerConfig()
	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
		Handler:      a.params.Engine,
		ReadTimeout:  time.Duration(serverConfig.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(serverConfig.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(serverConfig.IdleTimeout) * time.Second,
	}

	go func() {
		logrus.Infof("Server starting on %s", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()

	return nil
}

// Stop shuts everything down gracefully within the configured timeout.
func (a *App) Stop(ctx context.Context) {
	logrus.Info("Shutting down server...")

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			logrus.Errorf("Server shutdown error: %v", err)
		}
	}

	a.params.WarmKeeper.Stop(ctx)
	a.params.LogService.Stop(ctx)

	if err := a.params.Cache.Close(); err != nil {
		logrus.Errorf("Cache close error: %v", err)
	}

	if sqlDB, err := a.params.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("Database close error: %v", err)
		}
	}

	logrus.Info("Server stopped")
}
