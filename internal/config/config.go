// internal/config/config.go

// Package config 載入服務設定：預設值 → 選用的 YAML 檔 → AUTOSHOP_ 前綴環境變數。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 為環境變數前綴，例如 AUTOSHOP_HTTP_ADDR。
const EnvPrefix = "AUTOSHOP"

// ErrInvalid 代表設定值不合法。
var ErrInvalid = errors.New("invalid config")

// Config 為服務的完整設定。
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type HTTPConfig struct {
	// Addr 為監聽位址。預設 ":8080"。
	Addr string `mapstructure:"addr"`
	// ShutdownTimeout 為優雅關閉的最長等待時間。
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// RateLimit 為每秒允許的請求數；0 表示不限速。
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug|info|warn|error
	Format string `mapstructure:"format"` // json|text
}

type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Exporter string `mapstructure:"exporter"` // stdout|none
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Default 回傳內建預設值，不讀取設定檔或環境變數。
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
			RateBurst:       20,
		},
		Log:     LogConfig{Level: "info", Format: "json"},
		Tracing: TracingConfig{Exporter: "stdout"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// setDefaults 把 Default() 登記為 viper 的最低優先層。
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("http.addr", d.HTTP.Addr)
	v.SetDefault("http.shutdown_timeout", d.HTTP.ShutdownTimeout)
	v.SetDefault("http.rate_limit", d.HTTP.RateLimit)
	v.SetDefault("http.rate_burst", d.HTTP.RateBurst)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
}

// Load 讀取設定。path 為空時只使用預設值與環境變數。
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 檢查列舉型欄位與數值範圍。
func (c Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("%w: http.addr is empty", ErrInvalid)
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("%w: http.rate_limit must be >= 0", ErrInvalid)
	}
	if c.HTTP.RateLimit > 0 && c.HTTP.RateBurst < 1 {
		return fmt.Errorf("%w: http.rate_burst must be >= 1 when rate limiting", ErrInvalid)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	switch c.Tracing.Exporter {
	case "stdout", "none":
	default:
		return fmt.Errorf("%w: tracing.exporter %q", ErrInvalid, c.Tracing.Exporter)
	}
	return nil
}

// ParseLevel 將設定字串轉為 slog.Level。
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log.level %q", ErrInvalid, s)
	}
}
