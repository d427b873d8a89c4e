package types

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetAuthConfig() AuthConfig
	GetCORSConfig() CORSConfig
	GetPerformanceConfig() PerformanceConfig
	GetLogConfig() LogConfig
	GetDatabaseConfig() DatabaseConfig
	GetRedisDSN() string
	GetEffectiveServerConfig() ServerConfig
	GetBackendConfig() BackendConfig
	GetTranslationConfig() TranslationConfig
	GetStorageConfig() StorageConfig
	IsDebugMode() bool
	Validate() error
	DisplayServerConfig()
	ReloadConfig() error
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port                    int    `json:"port"`
	Host                    string `json:"host"`
	ReadTimeout             int    `json:"read_timeout"`
	WriteTimeout            int    `json:"write_timeout"`
	IdleTimeout             int    `json:"idle_timeout"`
	GracefulShutdownTimeout int    `json:"graceful_shutdown_timeout"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Key string `json:"key"`
}

// CORSConfig represents CORS configuration
type CORSConfig struct {
	Enabled          bool     `json:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// PerformanceConfig represents performance configuration
type PerformanceConfig struct {
	MaxConcurrentRequests int `json:"max_concurrent_requests"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `json:"level"`
	Format     string `json:"format"`
	EnableFile bool   `json:"enable_file"`
	FilePath   string `json:"file_path"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	DSN string `json:"dsn"`
}

// BackendConfig represents the LLM backend configuration
type BackendConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	// RequestTimeout bounds a single chat call, in seconds.
	RequestTimeout int `json:"request_timeout"`
	// EvaluationTimeout bounds the first quality evaluation, in seconds.
	EvaluationTimeout int  `json:"evaluation_timeout"`
	HealthCheckEnable bool `json:"health_check_enable"`
	PreloadModel      bool `json:"preload_model"`
	// WarmInterval is the idle ping interval that keeps the model loaded, in seconds.
	WarmInterval int `json:"warm_interval"`
}

// TranslationConfig represents the translation pipeline configuration
type TranslationConfig struct {
	EnableCache            bool     `json:"enable_cache"`
	EnableDictionary       bool     `json:"enable_dictionary"`
	EnableEvaluation       bool     `json:"enable_evaluation"`
	QualityThreshold       int      `json:"quality_threshold"`
	MaxImprovementAttempts int      `json:"max_improvement_attempts"`
	MinEvalTextLength      int      `json:"min_eval_text_length"`
	MaxEvalTextLength      int      `json:"max_eval_text_length"`
	SupportedLanguages     []string `json:"supported_languages"`
	// CacheExpiration is honored by the Redis cache only; the in-memory
	// cache is bounded by entry count, not age.
	CacheExpiration int `json:"cache_expiration"`
}

// StorageConfig represents file persistence locations
type StorageConfig struct {
	DictionariesPath string `json:"dictionaries_path"`
	HistoryFile      string `json:"history_file"`
}
