package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"turkish-learning-bot/pkg/validator"
)

type Config struct {
	BotToken    string         `mapstructure:"bot_token" validate:"required"`
	OwnerChatID int64          `mapstructure:"owner_chat_id"`
	DB          DBConfig       `mapstructure:"db"`
	Autosave    AutosaveConfig `mapstructure:"autosave"`
	TTS         TTSConfig      `mapstructure:"tts"`
	Reminder    ReminderConfig `mapstructure:"reminder"`
	Env         string         `mapstructure:"env" validate:"oneof=development production"`
}

type DBConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type AutosaveConfig struct {
	QuietPeriod time.Duration `mapstructure:"quiet_period" validate:"min=0"`
}

type TTSConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type ReminderConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	CheckInterval  time.Duration `mapstructure:"check_interval" validate:"min=0"`
	MinInterval    time.Duration `mapstructure:"min_interval" validate:"min=0"`
	QuietStartHour int           `mapstructure:"quiet_start_hour" validate:"min=0,max=23"`
	QuietEndHour   int           `mapstructure:"quiet_end_hour" validate:"min=0,max=23"`
	MaxPerDay      int           `mapstructure:"max_per_day" validate:"min=0"`
}

func Init() (*Config, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.SetDefault("env", "development")
	v.SetDefault("db.path", "vocab.db")
	v.SetDefault("autosave.quiet_period", 3*time.Second)
	v.SetDefault("tts.enabled", false)
	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.check_interval", 30*time.Minute)
	v.SetDefault("reminder.min_interval", 4*time.Hour)
	v.SetDefault("reminder.quiet_start_hour", 22)
	v.SetDefault("reminder.quiet_end_hour", 8)
	v.SetDefault("reminder.max_per_day", 3)

	if err := v.BindEnv("bot_token", "BOT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind BOT_TOKEN: %w", err)
	}
	if err := v.BindEnv("owner_chat_id", "OWNER_CHAT_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind OWNER_CHAT_ID: %w", err)
	}
	if err := v.BindEnv("db.path", "DB_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PATH: %w", err)
	}
	if err := v.BindEnv("tts.enabled", "TTS_ENABLED"); err != nil {
		return nil, fmt.Errorf("failed to bind TTS_ENABLED: %w", err)
	}
	if err := v.BindEnv("env", "ENV"); err != nil {
		return nil, fmt.Errorf("failed to bind ENV: %w", err)
	}

	v.AddConfigPath("configs")
	v.SetConfigName("default")

	// the config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.ValidateStruct(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
