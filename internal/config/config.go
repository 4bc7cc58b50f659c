package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Realtime RealtimeConfig `mapstructure:"realtime"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Log      LogConfig      `mapstructure:"log"`
}

// APIConfig holds REST adapter configuration
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RealtimeConfig holds realtime channel configuration
type RealtimeConfig struct {
	URL              string        `mapstructure:"url"`
	MaxMessageSize   int64         `mapstructure:"max_message_size"`
	WriteWait        time.Duration `mapstructure:"write_wait"`
	PongWait         time.Duration `mapstructure:"pong_wait"`
	PingPeriod       time.Duration `mapstructure:"ping_period"`
	WriteChannelSize int           `mapstructure:"write_channel_size"`
	EventChannelSize int           `mapstructure:"event_channel_size"`
	ReconnectMin     time.Duration `mapstructure:"reconnect_min"`
	ReconnectMax     time.Duration `mapstructure:"reconnect_max"`
}

// EngineConfig holds sync engine configuration
type EngineConfig struct {
	Role             string        `mapstructure:"role"`
	EnableDeletion   bool          `mapstructure:"enable_deletion"`
	ShowPropertyInfo bool          `mapstructure:"show_property_info"`
	PageSize         int           `mapstructure:"page_size"`
	SearchDebounce   time.Duration `mapstructure:"search_debounce"`
	TypingIdle       time.Duration `mapstructure:"typing_idle"`
	TypingExpiry     time.Duration `mapstructure:"typing_expiry"`
	ArchiveReconcile time.Duration `mapstructure:"archive_reconcile"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Global config instance
var GlobalConfig *Config

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8080"
	}
	if cfg.API.DialTimeout == 0 {
		cfg.API.DialTimeout = 10 * time.Second
	}
	if cfg.API.ReadTimeout == 0 {
		cfg.API.ReadTimeout = 30 * time.Second
	}
	if cfg.API.WriteTimeout == 0 {
		cfg.API.WriteTimeout = 30 * time.Second
	}
	if cfg.Realtime.URL == "" {
		cfg.Realtime.URL = "ws://localhost:8080/ws"
	}
	if cfg.Realtime.MaxMessageSize == 0 {
		cfg.Realtime.MaxMessageSize = 51200
	}
	if cfg.Realtime.WriteWait == 0 {
		cfg.Realtime.WriteWait = 10 * time.Second
	}
	if cfg.Realtime.PongWait == 0 {
		cfg.Realtime.PongWait = 30 * time.Second
	}
	if cfg.Realtime.PingPeriod == 0 {
		cfg.Realtime.PingPeriod = 27 * time.Second
	}
	if cfg.Realtime.WriteChannelSize == 0 {
		cfg.Realtime.WriteChannelSize = 256
	}
	if cfg.Realtime.EventChannelSize == 0 {
		cfg.Realtime.EventChannelSize = 1024
	}
	if cfg.Realtime.ReconnectMin == 0 {
		cfg.Realtime.ReconnectMin = time.Second
	}
	if cfg.Realtime.ReconnectMax == 0 {
		cfg.Realtime.ReconnectMax = 30 * time.Second
	}
	if cfg.Engine.Role == "" {
		cfg.Engine.Role = "customer"
	}
	if cfg.Engine.PageSize == 0 {
		cfg.Engine.PageSize = 50
	}
	if cfg.Engine.SearchDebounce == 0 {
		cfg.Engine.SearchDebounce = 500 * time.Millisecond
	}
	if cfg.Engine.TypingIdle == 0 {
		cfg.Engine.TypingIdle = 2 * time.Second
	}
	if cfg.Engine.TypingExpiry == 0 {
		cfg.Engine.TypingExpiry = 2 * time.Second
	}
	if cfg.Engine.ArchiveReconcile == 0 {
		cfg.Engine.ArchiveReconcile = 500 * time.Millisecond
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	GlobalConfig = &cfg
	return &cfg, nil
}
