// Package config provides environment-based configuration management
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"lingo-gate/internal/types"
	"lingo-gate/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Constants for default configuration values
const (
	DefaultPort                  = 8080
	DefaultHost                  = "0.0.0.0"
	DefaultBackendBaseURL        = "http://localhost:11434"
	DefaultModel                 = "gemma3:12b"
	DefaultQualityThreshold      = 90
	DefaultImprovementAttempts   = 3
	DefaultMinEvalTextLength     = 8
	DefaultMaxEvalTextLength     = 1000
	DefaultBackendTimeoutSeconds = 300
	DefaultEvalTimeoutSeconds    = 5
	DefaultCacheExpirationSecs   = 3600
	DefaultSupportedLanguages    = "en,ko"
	DefaultDictionariesPath      = "./data/dictionaries"
	DefaultHistoryFile           = "./data/translation_history.json"
)

// Config holds every configuration section for the service.
type Config struct {
	Server      types.ServerConfig
	Auth        types.AuthConfig
	CORS        types.CORSConfig
	Performance types.PerformanceConfig
	Log         types.LogConfig
	Database    types.DatabaseConfig
	RedisDSN    string
	Backend     types.BackendConfig
	Translation types.TranslationConfig
	Storage     types.StorageConfig
}

// Manager implements types.ConfigManager backed by environment variables.
type Manager struct {
	config *Config
}

// NewManager loads .env when present, reads the environment, and validates
// the result.
func NewManager() (*Manager, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using system environment variables")
	}

	manager := &Manager{}
	if err := manager.ReloadConfig(); err != nil {
		return nil, err
	}
	return manager, nil
}

// ReloadConfig re-reads the environment and swaps the active configuration.
func (m *Manager) ReloadConfig() error {
	config := &Config{
		Server: types.ServerConfig{
			Port:                    parseInteger(os.Getenv("PORT"), DefaultPort),
			Host:                    utils.GetEnvOrDefault("HOST", DefaultHost),
			ReadTimeout:             parseInteger(os.Getenv("SERVER_READ_TIMEOUT"), 60),
			WriteTimeout:            parseInteger(os.Getenv("SERVER_WRITE_TIMEOUT"), 600),
			IdleTimeout:             parseInteger(os.Getenv("SERVER_IDLE_TIMEOUT"), 120),
			GracefulShutdownTimeout: parseInteger(os.Getenv("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT"), 10),
		},
		Auth: types.AuthConfig{
			Key: os.Getenv("AUTH_KEY"),
		},
		CORS: types.CORSConfig{
			Enabled:          parseBoolean(os.Getenv("ENABLE_CORS"), true),
			AllowedOrigins:   parseArray(os.Getenv("ALLOWED_ORIGINS"), "*"),
			AllowedMethods:   parseArray(os.Getenv("ALLOWED_METHODS"), "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders:   parseArray(os.Getenv("ALLOWED_HEADERS"), "*"),
			AllowCredentials: parseBoolean(os.Getenv("ALLOW_CREDENTIALS"), false),
		},
		Performance: types.PerformanceConfig{
			MaxConcurrentRequests: parseInteger(os.Getenv("MAX_CONCURRENT_REQUESTS"), 100),
		},
		Log: types.LogConfig{
			Level:      utils.GetEnvOrDefault("LOG_LEVEL", "info"),
			Format:     utils.GetEnvOrDefault("LOG_FORMAT", "text"),
			EnableFile: parseBoolean(os.Getenv("LOG_ENABLE_FILE"), false),
			FilePath:   utils.GetEnvOrDefault("LOG_FILE_PATH", "./data/logs/app.log"),
		},
		Database: types.DatabaseConfig{
			DSN: utils.GetEnvOrDefault("DATABASE_DSN", "./data/lingo-gate.db"),
		},
		RedisDSN: os.Getenv("REDIS_DSN"),
		Backend: types.BackendConfig{
			BaseURL:           utils.GetEnvOrDefault("OLLAMA_BASE_URL", DefaultBackendBaseURL),
			Model:             utils.GetEnvOrDefault("OLLAMA_MODEL", DefaultModel),
			RequestTimeout:    parseInteger(os.Getenv("BACKEND_TIMEOUT"), DefaultBackendTimeoutSeconds),
			EvaluationTimeout: parseInteger(os.Getenv("EVALUATION_TIMEOUT"), DefaultEvalTimeoutSeconds),
			HealthCheckEnable: parseBoolean(os.Getenv("BACKEND_HEALTH_CHECK_ENABLE"), true),
			PreloadModel:      parseBoolean(os.Getenv("PRELOAD_MODEL"), true),
			WarmInterval:      parseInteger(os.Getenv("MODEL_WARM_INTERVAL"), 300),
		},
		Translation: types.TranslationConfig{
			EnableCache:            parseBoolean(os.Getenv("ENABLE_CACHE"), true),
			EnableDictionary:       parseBoolean(os.Getenv("ENABLE_DICTIONARY"), true),
			EnableEvaluation:       parseBoolean(os.Getenv("ENABLE_EVALUATION"), true),
			QualityThreshold:       parseInteger(os.Getenv("QUALITY_THRESHOLD"), DefaultQualityThreshold),
			MaxImprovementAttempts: parseInteger(os.Getenv("MAX_IMPROVEMENT_ATTEMPTS"), DefaultImprovementAttempts),
			MinEvalTextLength:      parseInteger(os.Getenv("MIN_TEXT_LENGTH_FOR_EVALUATION"), DefaultMinEvalTextLength),
			MaxEvalTextLength:      parseInteger(os.Getenv("MAX_TEXT_LENGTH_FOR_EVALUATION"), DefaultMaxEvalTextLength),
			SupportedLanguages:     parseArray(os.Getenv("SUPPORTED_LANGUAGES"), DefaultSupportedLanguages),
			CacheExpiration:        parseInteger(os.Getenv("CACHE_EXPIRATION"), DefaultCacheExpirationSecs),
		},
		Storage: types.StorageConfig{
			DictionariesPath: utils.GetEnvOrDefault("DICTIONARIES_PATH", DefaultDictionariesPath),
			HistoryFile:      utils.GetEnvOrDefault("HISTORY_FILE", DefaultHistoryFile),
		},
	}

	m.config = config
	return m.Validate()
}

// Validate checks configuration validity
func (m *Manager) Validate() error {
	var errs []string

	if m.config.Server.Port < 1 || m.config.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port: %d", m.config.Server.Port))
	}
	if m.config.Performance.MaxConcurrentRequests < 1 {
		errs = append(errs, "max_concurrent_requests must be at least 1")
	}
	if m.config.Backend.BaseURL == "" {
		errs = append(errs, "backend base URL must not be empty")
	}
	if m.config.Backend.Model == "" {
		errs = append(errs, "backend model must not be empty")
	}
	if m.config.Backend.RequestTimeout < 1 {
		errs = append(errs, "backend timeout must be at least 1 second")
	}
	if t := m.config.Translation; t.QualityThreshold < 0 || t.QualityThreshold > 100 {
		errs = append(errs, fmt.Sprintf("quality threshold must be in [0, 100], got %d", t.QualityThreshold))
	}
	if m.config.Translation.MaxImprovementAttempts < 0 {
		errs = append(errs, "max improvement attempts must not be negative")
	}
	if t := m.config.Translation; t.MinEvalTextLength > t.MaxEvalTextLength {
		errs = append(errs, "evaluation text length window is inverted")
	}
	if len(m.config.Translation.SupportedLanguages) == 0 {
		errs = append(errs, "supported languages must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// IsDebugMode returns whether debug logging is active
func (m *Manager) IsDebugMode() bool {
	return strings.ToLower(m.config.Log.Level) == "debug"
}

// GetAuthConfig returns authentication configuration
func (m *Manager) GetAuthConfig() types.AuthConfig {
	return m.config.Auth
}

// GetCORSConfig returns CORS configuration
func (m *Manager) GetCORSConfig() types.CORSConfig {
	return m.config.CORS
}

// GetPerformanceConfig returns performance configuration
func (m *Manager) GetPerformanceConfig() types.PerformanceConfig {
	return m.config.Performance
}

// GetLogConfig returns log configuration
func (m *Manager) GetLogConfig() types.LogConfig {
	return m.config.Log
}

// GetDatabaseConfig returns database configuration
func (m *Manager) GetDatabaseConfig() types.DatabaseConfig {
	return m.config.Database
}

// GetRedisDSN returns the Redis connection string, empty for memory storage
func (m *Manager) GetRedisDSN() string {
	return m.config.RedisDSN
}

// GetEffectiveServerConfig returns the server configuration
func (m *Manager) GetEffectiveServerConfig() types.ServerConfig {
	return m.config.Server
}

// GetBackendConfig returns the LLM backend configuration
func (m *Manager) GetBackendConfig() types.BackendConfig {
	return m.config.Backend
}

// GetTranslationConfig returns the translation pipeline configuration
func (m *Manager) GetTranslationConfig() types.TranslationConfig {
	return m.config.Translation
}

// GetStorageConfig returns file persistence locations
func (m *Manager) GetStorageConfig() types.StorageConfig {
	return m.config.Storage
}

// DisplayServerConfig logs the effective configuration at startup
func (m *Manager) DisplayServerConfig() {
	c := m.config
	logrus.Info("---------- Server Configuration ----------")
	logrus.Infof("  Listen: %s:%d", c.Server.Host, c.Server.Port)
	logrus.Infof("  Backend: %s (model %s)", c.Backend.BaseURL, c.Backend.Model)
	logrus.Infof("  Languages: %s", strings.Join(c.Translation.SupportedLanguages, ", "))
	logrus.Infof("  Cache: %v (redis: %v)", c.Translation.EnableCache, c.RedisDSN != "")
	logrus.Infof("  Dictionary: %v", c.Translation.EnableDictionary)
	logrus.Infof("  Evaluation: %v (threshold %d, attempts %d)",
		c.Translation.EnableEvaluation, c.Translation.QualityThreshold, c.Translation.MaxImprovementAttempts)
	logrus.Infof("  Auth: %v", c.Auth.Key != "")
	logrus.Info("------------------------------------------")
}

func parseInteger(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseBoolean(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseArray(value, defaultValue string) []string {
	if value == "" {
		value = defaultValue
	}
	return utils.SplitAndTrim(value, ",")
}
