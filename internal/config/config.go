package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Upstream CMS API
	UpstreamBaseURL string        // base URL of the CMS REST backend (required)
	StorageBaseURL  string        // public base URL of the object storage (required)
	UpstreamTimeout time.Duration // per-request timeout against the backend

	// Collection catalog
	CatalogFile    string        // path to collections.yaml
	ReloadInterval time.Duration // interval to reload collections.yaml (default: 24h)

	// Search
	SearchDebounce time.Duration // quiet window before a typed query fires (default: 300ms)
	SearchLimit    int           // fixed result limit sent to the search endpoint

	// Housekeeping
	JanitorInterval time.Duration // interval between janitor sweeps
	JanitorMaxAge   time.Duration // terminal uploads / read notifications older than this are pruned

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("CONSOLE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("CONSOLE_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("CONSOLE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("CONSOLE_PRETTY_LOG", true),

		// Upstream
		UpstreamBaseURL: requireURL("CONSOLE_API_BASE_URL"),
		StorageBaseURL:  requireURL("CONSOLE_STORAGE_BASE_URL"),
		UpstreamTimeout: mustDuration("CONSOLE_UPSTREAM_TIMEOUT", 15*time.Second),

		// Catalog
		CatalogFile:    getenv("CONSOLE_CATALOG_FILE", "/app/collections.yaml"),
		ReloadInterval: mustDuration("CONSOLE_RELOAD_INTERVAL", 24*time.Hour),

		// Search
		SearchDebounce: mustDuration("CONSOLE_SEARCH_DEBOUNCE", 300*time.Millisecond),
		SearchLimit:    getenvInt("CONSOLE_SEARCH_LIMIT", 8),

		// Housekeeping
		JanitorInterval: mustDuration("CONSOLE_JANITOR_INTERVAL", time.Hour),
		JanitorMaxAge:   mustDuration("CONSOLE_JANITOR_MAX_AGE", 24*time.Hour),

		// Redis settings
		RedisAddr:             requireEnv("CONSOLE_REDIS_ADDR"),
		RedisUser:             getenv("CONSOLE_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("CONSOLE_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("CONSOLE_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("CONSOLE_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("CONSOLE_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("CONSOLE_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("CONSOLE_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: CONSOLE_REDIS_PASSWORD is required when CONSOLE_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

// requireURL requires the variable and checks it parses as an absolute URL.
// The media and proxy surfaces cannot function without these, so a missing or
// malformed value is a hard startup error.
func requireURL(key string) string {
	v := requireEnv(key)
	u, err := url.Parse(v)
	if err != nil || !u.IsAbs() {
		panic(fmt.Sprintf("❌ FATAL: %s must be an absolute URL, got %q", key, v))
	}
	return strings.TrimRight(v, "/")
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
