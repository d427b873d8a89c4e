// lingo-gate is a consistency-preserving LLM translation service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lingo-gate/internal/app"
	"lingo-gate/internal/container"
	"lingo-gate/internal/types"

	"github.com/sirupsen/logrus"
)

func main() {
	c, err := container.BuildContainer()
	if err != nil {
		logrus.Fatalf("Failed to build container: %v", err)
	}

	err = c.Invoke(func(application *app.App, configManager types.ConfigManager) {
		if err := application.Start(); err != nil {
			logrus.Fatalf("Failed to start application: %v", err)
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		timeout := time.Duration(configManager.GetEffectiveServerConfig().GracefulShutdownTimeout) * time.Second
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		application.Stop(ctx)
	})
	if err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}
