package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Cron      CronConfig      `mapstructure:"cron"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Stream    StreamConfig    `mapstructure:"stream"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Retention RetentionConfig `mapstructure:"retention"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

// CronConfig holds the polling cadences. The decision and portfolio
// intervals mirror what the browser dashboard polled at (15s/30s).
type CronConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	DecisionPoll    string `mapstructure:"decision_poll"`
	PortfolioPoll   string `mapstructure:"portfolio_poll"`
	ThresholdSync   string `mapstructure:"threshold_sync"`
	RawEventCleanup string `mapstructure:"raw_event_cleanup"`
}

// EngineConfig points at the external trading/AI engine's REST API.
type EngineConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	PageLimit      int           `mapstructure:"page_limit"`
}

// StreamConfig points at the engine's websocket event feed.
type StreamConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	URL               string        `mapstructure:"url"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	BackoffMin        time.Duration `mapstructure:"backoff_min"`
	BackoffMax        time.Duration `mapstructure:"backoff_max"`
}

// DashboardConfig shapes the list endpoints.
type DashboardConfig struct {
	PageSize      int `mapstructure:"page_size"`
	WindowLimit   int `mapstructure:"window_limit"`
	RecentSignals int `mapstructure:"recent_signals"`
}

type RetentionConfig struct {
	RawEvents time.Duration `mapstructure:"raw_events"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.decision_poll", "@every 15s")
	v.SetDefault("cron.portfolio_poll", "@every 30s")
	v.SetDefault("cron.threshold_sync", "@every 5m")
	v.SetDefault("cron.raw_event_cleanup", "@every 1h")
	v.SetDefault("engine.base_url", "http://localhost:9300")
	v.SetDefault("engine.timeout", "15s")
	v.SetDefault("engine.rate_limit", 10)
	v.SetDefault("engine.rate_limit_burst", 20)
	v.SetDefault("engine.page_limit", 200)
	v.SetDefault("stream.enabled", true)
	v.SetDefault("stream.url", "ws://localhost:9300/ws")
	v.SetDefault("stream.heartbeat_interval", "20s")
	v.SetDefault("stream.backoff_min", "1s")
	v.SetDefault("stream.backoff_max", "30s")
	v.SetDefault("dashboard.page_size", 8)
	v.SetDefault("dashboard.window_limit", 1000)
	v.SetDefault("dashboard.recent_signals", 50)
	v.SetDefault("retention.raw_events", "72h")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
