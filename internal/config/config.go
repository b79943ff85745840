package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Tracing    TracingConfig    `mapstructure:"tracing"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Vocabulary VocabularyConfig `mapstructure:"vocabulary"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Enabled   bool
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type StorageConfig struct {
	Type          string `mapstructure:"type"` // local / minio / 空串表示关闭
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// EngineConfig 学习分析引擎的可调参数
// 维度权重是评分不变量（凸组合），写死在评分器里，不放进配置
type EngineConfig struct {
	MasteryThreshold  int     `mapstructure:"mastery_threshold"`  // 关卡未提供通过标准时的默认及格线
	SmoothingAlpha    float64 `mapstructure:"smoothing_alpha"`    // 最新观测的权重，默认 0.3
	TrendWindowSize   int     `mapstructure:"trend_window_size"`  // 技能趋势窗口，默认 10
	PerformanceWindow int     `mapstructure:"performance_window"` // 回归趋势窗口，默认 5
	MaxSuggestions    int     `mapstructure:"max_suggestions"`    // 单次评分最多返回几条建议
	ImprovementSignal float64 `mapstructure:"improvement_signal"` // 触发 skill-improved 事件的提升幅度
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("PROMPT_EDU")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.enabled", "DATABASE_ENABLED")
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// Engine 默认值
	viper.SetDefault("engine.mastery_threshold", 80)
	viper.SetDefault("engine.smoothing_alpha", 0.3)
	viper.SetDefault("engine.trend_window_size", 10)
	viper.SetDefault("engine.performance_window", 5)
	viper.SetDefault("engine.max_suggestions", 3)
	viper.SetDefault("engine.improvement_signal", 5.0)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Vocabulary = cfg.Vocabulary.WithDefaults()

	return &cfg, nil
}
