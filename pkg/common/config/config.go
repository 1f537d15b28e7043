package config

import (
	"time"

	"github.com/fystack/jetton-buy-notifier/pkg/common/constant"
)

type Config struct {
	Environment string         `yaml:"environment" env:"APP_ENV" validate:"required,oneof=production development"`
	LogLevel    string         `yaml:"log_level" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Version     string         `yaml:"version"`
	Server      ServerConfig   `yaml:"server"`
	Explorer    ExplorerConfig `yaml:"explorer"`
	Token       TokenConfig    `yaml:"token"`
	Telegram    TelegramConfig `yaml:"telegram"`
	Nats        NatsConfig     `yaml:"nats"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT" validate:"required,min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type ExplorerConfig struct {
	BaseURL  string         `yaml:"base_url" env:"TONAPI_URL" validate:"required,url"`
	APIKey   string         `yaml:"api_key" env:"TONAPI_KEY"`
	Timeout  time.Duration  `yaml:"timeout" validate:"gt=0"`
	Throttle ThrottleConfig `yaml:"throttle"`
}

// ThrottleConfig caps outbound explorer calls. RPS 0 disables throttling.
type ThrottleConfig struct {
	RPS   int `yaml:"rps" validate:"gte=0"`
	Burst int `yaml:"burst" validate:"gte=0"`
}

type TokenConfig struct {
	Symbol   string  `yaml:"symbol" env:"TOKEN_SYMBOL" validate:"required"`
	MinPrice float64 `yaml:"min_price" env:"MIN_PRICE" validate:"gte=0"`
}

type TelegramConfig struct {
	Token         string        `yaml:"token" env:"TG_TOKEN" validate:"required"`
	APIEndpoint   string        `yaml:"api_endpoint"`
	ChatIDs       []int64       `yaml:"chat_ids" env:"CHAT_IDS" envSeparator:"," validate:"required,min=1"`
	Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxParallel   int           `yaml:"max_parallel" validate:"gte=0"`
	Polling       *bool         `yaml:"polling"`
	ShortenWallet bool          `yaml:"shorten_wallet"`
	Buttons       []Button      `yaml:"buttons" validate:"dive"`
}

// PollingEnabled reports whether the bot long-polling loop should run.
func (t TelegramConfig) PollingEnabled() bool {
	return t.Polling == nil || *t.Polling
}

type Button struct {
	Text string `yaml:"text" validate:"required"`
	URL  string `yaml:"url" validate:"required,url"`
}

type NatsConfig struct {
	Enabled       bool          `yaml:"enabled" env:"NATS_ENABLED"`
	URL           string        `yaml:"url" env:"NATS_URL" validate:"required_if=Enabled true"`
	SubjectPrefix string        `yaml:"subject_prefix" validate:"required_if=Enabled true"`
	Username      string        `yaml:"username"`
	Password      string        `yaml:"password" env:"NATS_PASSWORD"`
	TLS           NatsTLSConfig `yaml:"tls"`
}

type NatsTLSConfig struct {
	ClientCert string `yaml:"client_cert"`
	ClientKey  string `yaml:"client_key"`
	CACert     string `yaml:"ca_cert"`
}

// Default returns the values merged into every loaded config for fields left empty.
func Default() Config {
	polling := true
	return Config{
		Environment: "development",
		LogLevel:    "info",
		Version:     "1.0.0",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Explorer: ExplorerConfig{
			BaseURL: constant.DefaultExplorerURL,
			Timeout: 10 * time.Second,
		},
		Telegram: TelegramConfig{
			Timeout:     10 * time.Second,
			MaxParallel: 4,
			Polling:     &polling,
		},
	}
}
