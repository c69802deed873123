package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}

	if c.Aggregator.EntryTTL <= 0 {
		return errors.New("aggregator.entry_ttl must be positive")
	}
	if c.Aggregator.SweepInterval <= 0 {
		return errors.New("aggregator.sweep_interval must be positive")
	}
	if c.Aggregator.Shards <= 0 {
		return errors.New("aggregator.shards must be a positive integer")
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be positive")
	}
	if c.Poller.Timeout < c.Poller.Interval {
		return fmt.Errorf("poller.timeout (%s) must be at least poller.interval (%s)",
			c.Poller.Timeout, c.Poller.Interval)
	}

	if c.Pipeline.WebhookURL == "" {
		return errors.New("pipeline.webhook_url is required")
	}

	// Redis config (only exercised by the simulate/worker commands)
	if c.Redis.Address == "" {
		return errors.New("redis.address is required")
	}

	// Worker config
	if c.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be a positive integer")
	}
	if len(c.Worker.Queues) == 0 {
		return errors.New("worker.queues must define at least one queue")
	}
	for name, priority := range c.Worker.Queues {
		if name == "" {
			return errors.New("worker.queues contains an empty queue name")
		}
		if priority <= 0 {
			return fmt.Errorf("worker.queues priority for queue '%s' must be positive", name)
		}
	}

	return nil
}
