package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/chichamlab/chicham/internal/model"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	Env                string
	HTTPPort           string
	DatabaseURL        string
	RedisAddr          string
	UsageRetentionDays int
}

// LoadConfig reads configuration from the environment, with a .env file as
// the local-development source.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file: %v", err)
	}

	return Config{
		Env:                getenv("ENV", "development"),
		HTTPPort:           getenv("HTTP_PORT", "8080"),
		DatabaseURL:        getenv("DATABASE_URL", "chicham.db"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		UsageRetentionDays: getenvInt("USAGE_RETENTION_DAYS", 90),
	}
}

// GetDb opens the configured database: Postgres when DATABASE_URL looks
// like a postgres DSN, a SQLite file otherwise. Driver errors are
// translated so duplicate-key detection works on both.
func GetDb(cnf Config) *gorm.DB {
	var dialector gorm.Dialector
	if strings.HasPrefix(cnf.DatabaseURL, "postgres://") || strings.HasPrefix(cnf.DatabaseURL, "postgresql://") {
		dialector = postgres.Open(cnf.DatabaseURL)
	} else {
		dialector = sqlite.Open(cnf.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	return db
}

// MigrateDb runs the schema migration against the configured database.
func MigrateDb(cnf Config) error {
	return model.Migrate(GetDb(cnf))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
