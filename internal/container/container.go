// Package container wires the dependency graph.
package container

import (
	"lingo-gate/internal/app"
	"lingo-gate/internal/backend"
	"lingo-gate/internal/cache"
	"lingo-gate/internal/config"
	"lingo-gate/internal/db"
	"lingo-gate/internal/dictionary"
	"lingo-gate/internal/evaluator"
	"lingo-gate/internal/handler"
	"lingo-gate/internal/history"
	"lingo-gate/internal/language"
	"lingo-gate/internal/router"
	"lingo-gate/internal/services"
	"lingo-gate/internal/translator"
	"lingo-gate/internal/types"

	"go.uber.org/dig"
)

// BuildContainer registers every constructor and returns the container.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	constructors := []any{
		func() (types.ConfigManager, error) {
			return config.NewManager()
		},
		language.NewNormalizer,
		func(configManager types.ConfigManager) backend.Client {
			return backend.NewOllamaClient(configManager)
		},
		backend.NewWarmKeeper,
		cache.NewCache,
		dictionary.NewService,
		history.NewStore,
		evaluator.NewService,
		translator.NewService,
		db.NewDB,
		services.NewTranslationLogService,
		handler.NewServer,
		router.NewRouter,
		app.NewApp,
	}

	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return nil, err
		}
	}

	return container, nil
}
