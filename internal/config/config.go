package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`

	// Aggregator controls the in-memory asset record store. Entries are
	// evicted once they go EntryTTL without an update so abandoned uploads
	// cannot accumulate for the life of the process.
	Aggregator struct {
		EntryTTL      time.Duration `mapstructure:"entry_ttl"`
		SweepInterval time.Duration `mapstructure:"sweep_interval"`
		Shards        int           `mapstructure:"shards"`
	} `mapstructure:"aggregator"`

	Poller struct {
		Interval time.Duration `mapstructure:"interval"`
		Timeout  time.Duration `mapstructure:"timeout"`
	} `mapstructure:"poller"`

	Pipeline struct {
		// WebhookURL is where the simulator worker delivers synthetic
		// notification events: the moderate endpoint of a running server.
		WebhookURL string `mapstructure:"webhook_url"`
	} `mapstructure:"pipeline"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	// Allow Viper to read environment variables.
	viper.AutomaticEnv()
	// Explicit bindings for the vars infra typically injects without a prefix.
	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("redis.address", "REDIS_ADDR")
	viper.BindEnv("pipeline.webhook_url", "PIPELINE_WEBHOOK_URL")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars carry the day.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.addr", "localhost")
	viper.SetDefault("server.port", "8080")

	viper.SetDefault("aggregator.entry_ttl", "30m")
	viper.SetDefault("aggregator.sweep_interval", "1m")
	viper.SetDefault("aggregator.shards", 16)

	// The pipeline usually resolves a video within a couple of minutes;
	// six minutes is the hard ceiling before the client gives up.
	viper.SetDefault("poller.interval", "5s")
	viper.SetDefault("poller.timeout", "6m")

	viper.SetDefault("pipeline.webhook_url", "http://localhost:8080/api/v1/moderate")

	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("worker.concurrency", 5)
	viper.SetDefault("worker.queues", map[string]int{"default": 1})
}
