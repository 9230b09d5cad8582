package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the question cache, the answer stream and session events.
var RedisClient *redis.Client

// InitRedis reads REDIS_ADDR, falling back to REDIS_URI then REDIS_URL.
func InitRedis(ctx context.Context) error {
	val := firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL")
	if val == "" {
		return errors.New("REDIS_ADDR (or REDIS_URI/REDIS_URL) environment variable is not set")
	}
	opt, err := redisOptions(val, os.Getenv("REDIS_PASSWORD"), os.Getenv("REDIS_DB"))
	if err != nil {
		return err
	}

	client := redis.NewClient(opt)
	if err := pingRedis(ctx, client); err != nil {
		_ = client.Close()
		return err
	}
	RedisClient = client
	return nil
}

// redisOptions accepts redis:// and rediss:// URLs or a bare host:port.
// password and db, when set, override whatever the URL carried.
func redisOptions(addr, password, db string) (*redis.Options, error) {
	var opt *redis.Options
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: addr}
	}

	if password != "" {
		opt.Password = password
	}
	if db != "" {
		n, err := strconv.Atoi(db)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("REDIS_DB %q: want a non-negative integer", db)
		}
		opt.DB = n
	}
	// XREADGROUP blocks for up to five seconds; leave room for it.
	opt.ReadTimeout = 10 * time.Second
	return opt, nil
}

func pingRedis(ctx context.Context, c *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// PingRedis is the readiness check for RedisClient.
func PingRedis(ctx context.Context) error {
	if RedisClient == nil {
		return errors.New("redis not initialised")
	}
	return pingRedis(ctx, RedisClient)
}

func CloseRedis() error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Close()
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
