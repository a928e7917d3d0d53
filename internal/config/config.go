package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string

	RateLimit  int           // 每个窗口内每个 IP 的最大请求数
	RateWindow time.Duration // 限流窗口

	// 停留点检测默认阈值
	DistanceThreshold float64 // 米
	TimeThreshold     float64 // 分钟
}

// Load 加载配置
//
// An optional .env file in the working directory is read first.
// Variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[Config] Ignoring .env: %v", err)
	}

	cfg := &Config{
		Port:              getenv("PORT", ":8080"),
		DBPath:            getenv("DB_PATH", "./data/trajectory.db"),
		JWTSecret:         getenv("JWT_SECRET", "your-secret-key-change-in-production"),
		RateLimit:         120,
		RateWindow:        time.Minute,
		DistanceThreshold: 200,
		TimeThreshold:     20,
	}

	if v := os.Getenv("RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = n
	}
	if v := os.Getenv("RATE_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("RATE_WINDOW: %w", err)
		}
		cfg.RateWindow = d
	}
	if v := os.Getenv("DEFAULT_DISTANCE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("DEFAULT_DISTANCE_THRESHOLD: %w", err)
		}
		cfg.DistanceThreshold = f
	}
	if v := os.Getenv("DEFAULT_TIME_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("DEFAULT_TIME_THRESHOLD: %w", err)
		}
		cfg.TimeThreshold = f
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
