package backend

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/medadhere/frontend-server/backend/apiconfig"
	"github.com/medadhere/frontend-server/backend/static"
)

// DefaultPort is used when PORT is unset or not an integer.
const DefaultPort = 3008

// Config is read once at startup and passed to whoever needs it.
type Config struct {
	Port          int
	Root          string
	IndexDocument string

	// AdminPort enables the admin listener when non-zero.
	AdminPort   int
	FeedSecret  string
	DatabaseURL string
	RedisURL    string

	API apiconfig.URLs
}

// LoadConfig loads .env (if present) and then reads the process environment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: could not load .env: %v", err)
	}
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv builds a Config from getenv, applying defaults.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := Config{
		Port:          ParsePort(getenv("PORT"), DefaultPort),
		Root:          getenv("STATIC_ROOT"),
		IndexDocument: getenv("INDEX_DOCUMENT"),
		AdminPort:     ParsePort(getenv("ADMIN_PORT"), 0),
		FeedSecret:    getenv("WS_SECRET"),
		DatabaseURL:   getenv("DATABASE_URL"),
		RedisURL:      getenv("REDIS_URL"),
		API:           apiconfig.DefaultURLs,
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.IndexDocument == "" {
		cfg.IndexDocument = static.DefaultIndex
	}
	if v := getenv("API_LOCAL_URL"); v != "" {
		cfg.API.Local = v
	}
	if v := getenv("API_REMOTE_URL"); v != "" {
		cfg.API.Remote = v
	}
	return cfg
}

// ParsePort returns v as a TCP port, or def when v is empty, not an integer
// or out of range.
func ParsePort(v string, def int) int {
	if v == "" {
		return def
	}
	p, err := strconv.Atoi(v)
	if err != nil || p < 0 || p > 65535 {
		return def
	}
	return p
}
