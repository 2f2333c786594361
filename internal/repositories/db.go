// Package repositories provides the data access layer. It owns the ledger's
// atomicity guarantees: every balance mutation and its audit row commit in a
// single database transaction with the account rows locked.
package repositories

import (
	"log"
	"os"
	"time"

	"dealtokens/internal/config"
	"dealtokens/internal/models"
	"dealtokens/internal/repositories/cache"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance used across the application.
var DB *gorm.DB

// Counters is the shared Redis-backed counter store (cache + rate limits).
var Counters *cache.RedisStore

// DBConfig holds database connection pool configuration
type DBConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

var dbConfig = DBConfig{
	MaxIdleConns:    10,
	MaxOpenConns:    100,
	ConnMaxLifetime: time.Hour,
	ConnMaxIdleTime: time.Minute * 30,
}

// InitDB initializes the Postgres connection and the Redis counter store,
// then migrates the ledger schema.
func InitDB() error {
	initPostgres()

	redisCfg := &cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	}
	Counters = cache.NewRedisStore(cache.NewRedisClient(redisCfg))

	return DB.AutoMigrate(
		&models.Account{},
		&models.Transaction{},
		&models.WalletLink{},
		&models.ServicePrice{},
	)
}

func initPostgres() {
	dsn := "host=" + config.GetEnv("DB_HOST", "localhost") +
		" user=" + config.GetEnv("DB_USER", "postgres") +
		" password=" + config.GetEnv("DB_PASSWORD", "postgres") +
		" dbname=" + config.GetEnv("DB_NAME", "dealtokens") +
		" port=" + config.GetEnv("DB_PORT", "5432") +
		" sslmode=" + config.GetEnv("DB_SSLMODE", "disable")

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !config.IsProduction(),
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		zap.L().Fatal("failed to connect to postgres", zap.Error(err))
	}
	DB = db

	sqlDB, err := db.DB()
	if err != nil {
		zap.L().Fatal("failed to get database instance", zap.Error(err))
	}
	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(dbConfig.ConnMaxIdleTime)

	zap.L().Info("postgres connected", zap.String("db", config.GetEnv("DB_NAME", "dealtokens")))
}

// CloseDB releases the database and Redis connections.
func CloseDB() {
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				zap.L().Warn("failed to close database connection", zap.Error(err))
			}
		}
	}
	if Counters != nil {
		if err := Counters.Close(); err != nil {
			zap.L().Warn("failed to close redis connection", zap.Error(err))
		}
	}
}
