// Package router assembles the gin engine and route table.
package router

import (
	"lingo-gate/internal/handler"
	"lingo-gate/internal/i18n"
	"lingo-gate/internal/middleware"
	"lingo-gate/internal/types"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with the full middleware chain and routes.
func NewRouter(server *handler.Server, configManager types.ConfigManager) *gin.Engine {
	if configManager.IsDebugMode() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.ErrorHandler(),
		i18n.Middleware(),
		middleware.Logger(),
		middleware.CORS(configManager.GetCORSConfig()),
		middleware.RateLimiter(configManager.GetPerformanceConfig()),
		gzip.Gzip(gzip.DefaultCompression),
	)

	engine.GET("/health", server.Health)

	auth := middleware.Auth(configManager.GetAuthConfig())

	// Plain-text endpoint kept on the root path for drop-in clients.
	engine.GET("/translate", auth, server.TranslateText)

	api := engine.Group("/api", auth)
	{
		api.POST("/translate", server.TranslateJSON)
		api.GET("/languages", server.GetLanguages)
		api.GET("/history", server.GetHistory)
		api.GET("/logs", server.GetLogs)

		dictionaries := api.Group("/dictionaries")
		{
			dictionaries.GET("/:lang", server.GetDictionary)
			dictionaries.POST("/:lang/terms", server.AddDictionaryTerm)
			dictionaries.POST("/:lang/reload", server.ReloadDictionary)
		}
	}

	return engine
}
