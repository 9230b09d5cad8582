package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yoockh/interviewme/internal/models"
)

// PostgresDB holds the question bank and recording metadata.
var PostgresDB *gorm.DB

// PoolConfig sizes the database/sql pool under gorm.
type PoolConfig struct {
	MaxIdle     int
	MaxOpen     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// PoolConfigFromEnv reads POSTGRES_MAX_IDLE_CONNS and POSTGRES_MAX_OPEN_CONNS.
func PoolConfigFromEnv() PoolConfig {
	return PoolConfig{
		MaxIdle:     envInt("POSTGRES_MAX_IDLE_CONNS", 5),
		MaxOpen:     envInt("POSTGRES_MAX_OPEN_CONNS", 25),
		MaxLifetime: 30 * time.Minute,
		MaxIdleTime: 5 * time.Minute,
	}
}

// InitPostgres opens POSTGRES_URI with gorm, routing slow-query and error
// logs through log.
func InitPostgres(ctx context.Context, log *logrus.Logger) error {
	uri := os.Getenv("POSTGRES_URI")
	if uri == "" {
		return errors.New("POSTGRES_URI environment variable is not set")
	}

	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	pool := PoolConfigFromEnv()
	sqlDB.SetMaxIdleConns(pool.MaxIdle)
	sqlDB.SetMaxOpenConns(pool.MaxOpen)
	sqlDB.SetConnMaxLifetime(pool.MaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.MaxIdleTime)

	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}

	PostgresDB = db
	return nil
}

// MigratePostgres creates or updates the question bank and recording tables.
func MigratePostgres(ctx context.Context) error {
	if PostgresDB == nil {
		return errors.New("postgres not initialised")
	}
	return PostgresDB.WithContext(ctx).AutoMigrate(&models.Question{}, &models.Recording{})
}

// PingPostgres is the readiness check for PostgresDB.
func PingPostgres(ctx context.Context) error {
	if PostgresDB == nil {
		return errors.New("postgres not initialised")
	}
	sqlDB, err := PostgresDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func ClosePostgres() error {
	if PostgresDB == nil {
		return nil
	}
	sqlDB, err := PostgresDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
