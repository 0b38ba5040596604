package config

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Port          string
	StoreDriver   string
	SQLitePath    string
	DatabaseURL   string
	SessionKey    []byte
	CookieSecure  bool
	AdminEmail    string
	AdminPassword string
	LoginDelay    time.Duration
	FeedInterval  time.Duration
	CatalogFile   string
	LogLevel      string
	LogFormat     string
	CORSOrigins   []string
}

// LoadConfig читает .env (если есть) и переменные окружения
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env file", "error", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "9091"),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		SQLitePath:    getEnv("SQLITE_PATH", "./foodgiver.db"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		CookieSecure:  getEnv("COOKIE_SECURE", "false") == "true",
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		CatalogFile:   getEnv("CATALOG_FILE", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.LoginDelay, err = getDuration("LOGIN_DELAY", 0); err != nil {
		return nil, err
	}
	if cfg.FeedInterval, err = getDuration("FEED_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.FeedInterval <= 0 {
		return nil, fmt.Errorf("FEED_INTERVAL must be positive, got %s", cfg.FeedInterval)
	}

	sessionKeyStr := os.Getenv("SESSION_KEY")
	if sessionKeyStr == "" {
		slog.Warn("SESSION_KEY not set, generating a random key. Admin sessions will not survive a restart.")
		cfg.SessionKey = generateRandomBytes(32)
	} else {
		decoded, err := base64.StdEncoding.DecodeString(sessionKeyStr)
		if err != nil || len(decoded) < 32 {
			slog.Warn("SESSION_KEY is invalid or shorter than 32 bytes, generating a random key.")
			cfg.SessionKey = generateRandomBytes(32)
		} else {
			cfg.SessionKey = decoded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyFlags overrides env values with command-line flags.
// Prints usage and exits on -help.
func (c *Config) ApplyFlags(fs *flag.FlagSet, args []string) error {
	port := fs.String("port", c.Port, "Port number")
	store := fs.String("store", c.StoreDriver, "Storage backend: memory, sqlite or postgres")
	help := fs.Bool("help", false, "Show this screen")
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "FoodGiver ordering service\n\n")
		fmt.Fprintf(out, "Usage:\n")
		fmt.Fprintf(out, "  foodgiver [--port <N>] [--store <memory|sqlite|postgres>]\n")
		fmt.Fprintf(out, "  foodgiver --help\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *help {
		fs.Usage()
		os.Exit(0)
	}
	c.Port = *port
	c.StoreDriver = strings.ToLower(*store)
	return c.Validate()
}

func (c *Config) Validate() error {
	n, err := strconv.Atoi(c.Port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port %q: must be a number between 1 and 65535", c.Port)
	}
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	return b
}
