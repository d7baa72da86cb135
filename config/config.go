package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Telegram TelegramConfig
	HTTP     HTTPConfig
	Shop     ShopConfig
	Log      LogConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN returns the postgres connection string for pgxpool.
func (c DBConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.Database
}

type TelegramConfig struct {
	Token        string
	AdminIDs     []int64 // telegram users promoted to admin on sign-in
	SuperadminID int64
}

type HTTPConfig struct {
	Addr string
}

type ShopConfig struct {
	Tables               int
	LoyaltyPointsPerUnit int64
	MenuCacheTTL         time.Duration
	SessionIdleTTL       time.Duration // carts untouched this long are dropped
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	tables, err := strconv.Atoi(getEnv("TABLES", "12"))
	if err != nil || tables <= 0 {
		tables = 12
	}
	perUnit, err := strconv.ParseInt(getEnv("LOYALTY_POINTS_PER_UNIT", "10"), 10, 64)
	if err != nil || perUnit < 0 {
		perUnit = 10
	}
	ttl, err := time.ParseDuration(getEnv("MENU_CACHE_TTL", "30s"))
	if err != nil {
		ttl = 30 * time.Second
	}
	idle, err := time.ParseDuration(getEnv("SESSION_IDLE_TTL", "2h"))
	if err != nil || idle <= 0 {
		idle = 2 * time.Hour
	}
	superadmin, _ := strconv.ParseInt(getEnv("SUPERADMIN_ID", "0"), 10, 64)

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "coffeeshop"),
		},
		Telegram: TelegramConfig{
			Token:        getEnv("TOKEN", ""),
			AdminIDs:     parseIDs(getEnv("ADMIN_IDS", "")),
			SuperadminID: superadmin,
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Shop: ShopConfig{
			Tables:               tables,
			LoyaltyPointsPerUnit: perUnit,
			MenuCacheTTL:         ttl,
			SessionIdleTTL:       idle,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getBool("LOG_PRETTY"),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	return v == "1" || strings.EqualFold(v, "true")
}

// parseIDs reads a comma separated list of telegram ids, skipping anything unparsable.
func parseIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
