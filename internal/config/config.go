package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/kitbuilder587/decision-engine/internal/domain"
)

var ErrInvalidConcurrency = errors.New("RANK_CONCURRENCY must be at least 1")

type Config struct {
	Log     LogConfig
	Scoring ScoringConfig
	Cache   CacheConfig
}

type LogConfig struct {
	Level string
}

// ScoringConfig - дефолтные параметры скоринга, вызов может их переопределить
type ScoringConfig struct {
	WeightFit       float64
	WeightPhase     float64
	WeightStability float64
	Lambda          float64
	VetoThreshold   float64
	Concurrency     int
}

type CacheConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Scoring: ScoringConfig{
			WeightFit:       getEnvFloatOrDefault("WEIGHT_FIT", 1),
			WeightPhase:     getEnvFloatOrDefault("WEIGHT_PHASE", 1),
			WeightStability: getEnvFloatOrDefault("WEIGHT_STABILITY", 1),
			Lambda:          getEnvFloatOrDefault("LAMBDA", domain.DefaultLambda),
			VetoThreshold:   getEnvFloatOrDefault("VETO_THRESHOLD", domain.DefaultVetoThreshold),
			Concurrency:     getEnvIntOrDefault("RANK_CONCURRENCY", 4),
		},
		Cache: CacheConfig{
			TTL:             time.Duration(getEnvIntOrDefault("CACHE_TTL_SEC", 3600)) * time.Second,
			CleanupInterval: time.Duration(getEnvIntOrDefault("CACHE_CLEANUP_SEC", 300)) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Scoring.Params().Validate(); err != nil {
		return err
	}
	if c.Scoring.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	return nil
}

// Params собирает доменные параметры из конфига
func (s ScoringConfig) Params() domain.Params {
	return domain.Params{
		Weights: domain.Weights{
			Fit:       s.WeightFit,
			Phase:     s.WeightPhase,
			Stability: s.WeightStability,
		},
		Lambda:        s.Lambda,
		VetoThreshold: s.VetoThreshold,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
