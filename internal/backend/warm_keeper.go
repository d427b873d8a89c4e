package backend

import (
	"context"
	"sync"
	"time"

	"lingo-gate/internal/types"

	"github.com/sirupsen/logrus"
)

const (
	serverCheckRetries = 10
	serverCheckDelay   = 5 * time.Second
)

// WarmKeeper preloads the model at startup and pings it on an interval so it
// is not evicted from backend memory between requests.
type WarmKeeper struct {
	client   Client
	config   types.BackendConfig
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewWarmKeeper creates a new WarmKeeper.
func NewWarmKeeper(client Client, configManager types.ConfigManager) *WarmKeeper {
	return &WarmKeeper{
		client:   client,
		config:   configManager.GetBackendConfig(),
		stopChan: make(chan struct{}),
	}
}

// Start performs the optional preload and launches the keep-warm loop.
// A cold backend at startup is logged but does not fail the application.
func (k *WarmKeeper) Start() {
	if k.config.PreloadModel {
		k.wg.Add(1)
		go func() {
			defer k.wg.Done()
			k.preload()
		}()
	}

	if k.config.HealthCheckEnable {
		k.wg.Add(1)
		go k.runLoop()
	}
}

// Stop stops the keep-warm loop, respecting the context for shutdown timeout.
func (k *WarmKeeper) Stop(ctx context.Context) {
	close(k.stopChan)

	done := make(chan struct{})
	go func() {
		k.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logrus.Info("WarmKeeper stopped gracefully.")
	case <-ctx.Done():
		logrus.Warn("WarmKeeper stop timed out.")
	}
}

// preload pings the backend with bounded retries until the model answers.
func (k *WarmKeeper) preload() {
	for attempt := 1; attempt <= serverCheckRetries; attempt++ {
		select {
		case <-k.stopChan:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(k.config.RequestTimeout)*time.Second)
		err := k.client.Ping(ctx)
		cancel()

		if err == nil {
			logrus.Info("Backend model is loaded and warm")
			return
		}
		logrus.Warnf("Backend not ready, retry %d/%d: %v", attempt, serverCheckRetries, err)

		select {
		case <-time.After(serverCheckDelay):
		case <-k.stopChan:
			return
		}
	}
	logrus.Error("Backend did not become ready; translations will fail until it does")
}

func (k *WarmKeeper) runLoop() {
	defer k.wg.Done()

	interval := time.Duration(k.config.WarmInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(k.config.RequestTimeout)*time.Second)
			if err := k.client.Ping(ctx); err != nil {
				logrus.WithError(err).Warn("Keep-warm ping failed")
			}
			cancel()
		case <-k.stopChan:
			return
		}
	}
}
