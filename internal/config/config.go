// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot     BotConfig     `mapstructure:"bot"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Storage StorageConfig `mapstructure:"storage"`
	Logs    LogsConfig    `mapstructure:"logs"`
	Games   GamesConfig   `mapstructure:"games"`
	Deposit DepositConfig `mapstructure:"deposit"`
}

// BotConfig holds Telegram bot transport configuration. When WebhookURL is
// set the bot serves a webhook on ListenAddr instead of long-polling.
type BotConfig struct {
	Token      string        `mapstructure:"token"`
	WebhookURL string        `mapstructure:"webhook_url"`
	ListenAddr string        `mapstructure:"listen_addr"`
	PollPeriod time.Duration `mapstructure:"poll_period"`
}

// AdminConfig holds the single privileged admin id. All admin-only
// operations reject any other caller.
type AdminConfig struct {
	ID int64 `mapstructure:"id"`
}

// StorageConfig holds the ledger snapshot location.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LogsConfig holds the daily action log location.
type LogsConfig struct {
	Dir string `mapstructure:"dir"`
}

// GamesConfig holds game flow configuration.
type GamesConfig struct {
	// DrawWait is how long the animated dice plays before its value is read.
	DrawWait time.Duration `mapstructure:"draw_wait"`
}

// DepositConfig bounds Stars deposits.
type DepositConfig struct {
	Min     int64   `mapstructure:"min"`
	Max     int64   `mapstructure:"max"`
	Presets []int64 `mapstructure:"presets"`
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the given directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. BOT_TOKEN, ADMIN_ID, STORAGE_PATH.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - env vars can provide all config.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.listen_addr", ":8080")
	v.SetDefault("bot.poll_period", "10s")

	v.SetDefault("storage.path", "data/users.json")
	v.SetDefault("logs.dir", "logs")

	// The Telegram dice animation runs about four seconds before the
	// value may be shown.
	v.SetDefault("games.draw_wait", "4s")

	v.SetDefault("deposit.min", 1)
	v.SetDefault("deposit.max", 2500)
	v.SetDefault("deposit.presets", []int64{1, 5, 10, 25, 50, 100, 250})
}

// IsAdmin checks whether a user id is the configured admin.
func (c *Config) IsAdmin(userID int64) bool {
	return c.Admin.ID != 0 && c.Admin.ID == userID
}
