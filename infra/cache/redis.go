// Package cache keeps the latest fleet report in Redis so that other
// services can read it without querying the engine.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kilianp07/motofleet/core/factory"
	coremetrics "github.com/kilianp07/motofleet/core/metrics"
	"github.com/kilianp07/motofleet/core/report"
	"github.com/kilianp07/motofleet/infra/logger"
)

// Config holds the Redis connection and key settings.
type Config struct {
	Address      string        `json:"address" yaml:"address"`
	Password     string        `json:"password" yaml:"password"`
	DB           int           `json:"db" yaml:"db"`
	Prefix       string        `json:"prefix" yaml:"prefix"`
	TTL          time.Duration `json:"ttl" yaml:"ttl"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = "localhost:6379"
	}
	if c.Prefix == "" {
		c.Prefix = "motofleet"
	}
	if c.TTL <= 0 {
		c.TTL = 24 * time.Hour
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

// LatestKey is the key holding the most recent report.
func (c Config) LatestKey() string { return c.Prefix + ":report:latest" }

// ReportCache writes every report it receives to Redis.
type ReportCache struct {
	client redis.UniversalClient
	cfg    Config
	log    logger.Logger
}

// NewReportCache connects to Redis and checks the connection.
func NewReportCache(cfg Config) (*ReportCache, error) {
	cfg.SetDefaults()
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &ReportCache{client: client, cfg: cfg, log: logger.New("redis-cache")}, nil
}

// RecordReport stores r under the latest key with the configured TTL.
func (c *ReportCache) RecordReport(r report.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.WriteTimeout)
	defer cancel()
	if err := c.client.Set(ctx, c.cfg.LatestKey(), data, c.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("cache report: %w", err)
	}
	c.log.Debugf("cached report %s under %s", r.RunID, c.cfg.LatestKey())
	return nil
}

// Latest reads back the cached report.
func (c *ReportCache) Latest(ctx context.Context) (report.Report, bool, error) {
	data, err := c.client.Get(ctx, c.cfg.LatestKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return report.Report{}, false, nil
	}
	if err != nil {
		return report.Report{}, false, err
	}
	var r report.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return report.Report{}, false, fmt.Errorf("decode cached report: %w", err)
	}
	return r, true, nil
}

// Close closes the Redis client.
func (c *ReportCache) Close() error { return c.client.Close() }

func init() {
	_ = coremetrics.RegisterReportSink("redis", func(conf map[string]any) (coremetrics.ReportSink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewReportCache(c)
	})
}
