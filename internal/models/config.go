package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type ArchiveConfig struct {
	OutputPath   string             `mapstructure:"output_path"`
	Folder       string             `mapstructure:"output_folder"`
	Destination  string             `mapstructure:"output_destination"` // "local" or a cloud provider
	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`
}

type Config struct {
	CanteenName string `mapstructure:"canteen_name"`

	// Shared state store backend: "memory" or "postgres".
	StoreBackend string         `mapstructure:"store_backend"`
	Postgres     DatabaseConfig `mapstructure:"postgres"`

	// Local durable ledger (voted polls, profile cache).
	LedgerPath string `mapstructure:"ledger_path"`

	// Live analytics tuning.
	ServingRatePerMinute int `mapstructure:"serving_rate_per_minute"`
	CrowdMediumThreshold int `mapstructure:"crowd_medium_threshold"`
	CrowdHighThreshold   int `mapstructure:"crowd_high_threshold"`

	// Pickup slot table; falls back to DefaultTimeSlots when empty.
	TimeSlots []TimeSlot `mapstructure:"time_slots"`

	// Lifecycle event stream: "none", "console" or "kafka".
	EventOutput     string `mapstructure:"event_output"`
	KafkaBrokerList string `mapstructure:"kafka_broker_list"`

	// Durable-write retry policy. The upstream design swallowed write
	// failures with no retry at all; the bounded retry here is a documented
	// deviation.
	WriteRetryAttempts int           `mapstructure:"write_retry_attempts"`
	WriteRetryBackoff  time.Duration `mapstructure:"write_retry_backoff"`

	// Reconciler cadence for logging optimistic/confirmed divergence.
	ReconcileInterval time.Duration `mapstructure:"reconcile_interval"`
	ReconcileGrace    time.Duration `mapstructure:"reconcile_grace"`

	Archive ArchiveConfig `mapstructure:"archive"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default config location
		viper.AddConfigPath(".")
		viper.SetConfigName("preplate")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("canteen_name", "Campus Canteen")
	viper.SetDefault("store_backend", "memory")
	viper.SetDefault("ledger_path", "preplate.db")
	viper.SetDefault("serving_rate_per_minute", 3)
	viper.SetDefault("crowd_medium_threshold", 10)
	viper.SetDefault("crowd_high_threshold", 30)
	viper.SetDefault("event_output", "none")
	viper.SetDefault("kafka_broker_list", "localhost:9092")
	viper.SetDefault("write_retry_attempts", 3)
	viper.SetDefault("write_retry_backoff", "500ms")
	viper.SetDefault("reconcile_interval", "30s")
	viper.SetDefault("reconcile_grace", "1m")
	viper.SetDefault("archive.output_path", "archive")
	viper.SetDefault("archive.output_folder", "orders")
	viper.SetDefault("archive.output_destination", "local")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults plus flags carry the day.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if len(config.TimeSlots) == 0 {
		config.TimeSlots = DefaultTimeSlots()
	}

	return &config, nil
}
