package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Env       string
	Port      string
	BotToken  string
	JWTSecret string

	RedisURL  string
	RedisPass string
	RedisDB   int

	Mining MiningConfig
}

// MiningConfig holds the reward policy knobs. Defaults match the values the
// mini-app client was tuned against.
type MiningConfig struct {
	BaseMiningRate      float64 // coins/hour at level 1
	RateStepPerLevel    float64 // coins/hour added per level above 1
	SessionSeconds      int64   // cap on one mining session
	DailySeconds        int64   // daily active-time ceiling
	BaseUpgradeCost     float64 // cost of the level 1 -> 2 upgrade
	UpgradeGrowthFactor float64 // geometric cost growth per upgrade
	MaxMiningLevel      int
	AdCooldownSeconds   int64 // min gap between two ad credits
	AdDailyCapSeconds   int64 // max seconds grantable via ads per UTC day
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "8080"),
		BotToken:  os.Getenv("BOT_TOKEN"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		RedisURL:  getEnv("REDIS_URL", "localhost:6379"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		Mining: MiningConfig{
			BaseMiningRate:      getEnvFloat("MINING_BASE_RATE", 10),
			RateStepPerLevel:    getEnvFloat("MINING_RATE_STEP", 5),
			SessionSeconds:      getEnvInt64("MINING_SESSION_SECONDS", 3600),
			DailySeconds:        getEnvInt64("MINING_DAILY_SECONDS", 14400),
			BaseUpgradeCost:     getEnvFloat("MINING_BASE_UPGRADE_COST", 100),
			UpgradeGrowthFactor: getEnvFloat("MINING_UPGRADE_GROWTH", 1.5),
			MaxMiningLevel:      getEnvInt("MINING_MAX_LEVEL", 1000),
			AdCooldownSeconds:   getEnvInt64("AD_COOLDOWN_SECONDS", 300),
			AdDailyCapSeconds:   getEnvInt64("AD_DAILY_CAP_SECONDS", 7200),
		},
	}

	if cfg.Env == "production" && cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required in production")
	}
	if cfg.Mining.UpgradeGrowthFactor <= 1 {
		return nil, fmt.Errorf("MINING_UPGRADE_GROWTH must be greater than 1")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
