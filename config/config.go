package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided
// via env files or the environment.
type AppConfig struct {
	AppPort     string
	Environment string
	JWTSecret   string
	FrontendURL string

	// Database
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// CORS
	AllowedOrigins []string

	// Redis (outbound notification queue)
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// Courier mail provider
	CourierToken     string
	CourierBaseURL   string
	CourierBulkEvent string

	// Notification dispatcher
	NotifyChunkSize   int
	NotifyMaxAttempts int
	NotifyWorkers     int

	// Cloudinary upload signing
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Health self-ping (keep-alive on hosts that idle out)
	HealthPingURL         string
	HealthPingIntervalMin int

	RateLimitPerMinute int

	// Gin framework configuration
	GinMode string
	GinPath string

	// Logging
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. Precedence:
// config/config.json -> defaults -> environment variables (.env honored).
// It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Optional .env file for local development; real deployments use the
	// process environment.
	_ = godotenv.Load()

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// SetForTesting replaces the cached configuration. Test helper only.
func SetForTesting(c AppConfig) {
	cfg = c
	loaded = true
}

// loadJSONConfig reads a grouped JSON file into out if present. Returns an
// error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	if app, ok := raw["app"].(map[string]interface{}); ok {
		out.AppPort = getString(app, "AppPort")
		out.Environment = getString(app, "Environment")
		out.JWTSecret = getString(app, "JWTSecret")
		out.FrontendURL = getString(app, "FrontendURL")
		if v := getInt(app, "RateLimitPerMinute"); v != 0 {
			out.RateLimitPerMinute = v
		}
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
	}

	if dbs, ok := raw["database"].(map[string]interface{}); ok {
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
	}

	if rds, ok := raw["redis"].(map[string]interface{}); ok {
		out.RedisHost = getString(rds, "RedisHost")
		if v := getInt(rds, "RedisPort"); v != 0 {
			out.RedisPort = v
		}
		if v := getInt(rds, "RedisDB"); v != 0 {
			out.RedisDB = v
		}
		out.RedisPassword = getString(rds, "RedisPassword")
	}

	if cr, ok := raw["courier"].(map[string]interface{}); ok {
		out.CourierToken = getString(cr, "Token")
		out.CourierBaseURL = getString(cr, "BaseURL")
		out.CourierBulkEvent = getString(cr, "BulkEvent")
	}

	if nt, ok := raw["notify"].(map[string]interface{}); ok {
		if v := getInt(nt, "ChunkSize"); v != 0 {
			out.NotifyChunkSize = v
		}
		if v := getInt(nt, "MaxAttempts"); v != 0 {
			out.NotifyMaxAttempts = v
		}
		if v := getInt(nt, "Workers"); v != 0 {
			out.NotifyWorkers = v
		}
	}

	if cl, ok := raw["cloudinary"].(map[string]interface{}); ok {
		out.CloudinaryCloudName = getString(cl, "CloudName")
		out.CloudinaryAPIKey = getString(cl, "APIKey")
		out.CloudinaryAPISecret = getString(cl, "APISecret")
	}

	if hp, ok := raw["health"].(map[string]interface{}); ok {
		out.HealthPingURL = getString(hp, "PingURL")
		if v := getInt(hp, "PingIntervalMin"); v != 0 {
			out.HealthPingIntervalMin = v
		}
	}

	if lg, ok := raw["log"].(map[string]interface{}); ok {
		if v := getString(lg, "Level"); v != "" {
			out.LogLevel = v
		}
		if v := getString(lg, "Path"); v != "" {
			out.LogPath = v
		}
		if v := getString(lg, "GinMode"); v != "" {
			out.GinMode = v
		}
		if v := getString(lg, "GinPath"); v != "" {
			out.GinPath = v
		}
		if v := getInt(lg, "MaxSizeMB"); v != 0 {
			out.LogMaxSizeMB = v
		}
		if v := getInt(lg, "MaxBackups"); v != 0 {
			out.LogMaxBackups = v
		}
		if v := getInt(lg, "MaxAgeDays"); v != 0 {
			out.LogMaxAgeDays = v
		}
		out.LogCompress = getBool(lg, "Compress")
	}

	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "5000"
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.FrontendURL == "" {
		c.FrontendURL = "http://localhost:3002"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{c.FrontendURL}
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "facblog"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.CourierBaseURL == "" {
		c.CourierBaseURL = "https://api.courier.com"
	}
	if c.NotifyChunkSize == 0 {
		c.NotifyChunkSize = 1000
	}
	if c.NotifyMaxAttempts == 0 {
		c.NotifyMaxAttempts = 3
	}
	if c.NotifyWorkers == 0 {
		c.NotifyWorkers = 2
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		c.AppPort = v
	}
	if v := os.Getenv("NODE_ENV"); v != "" { // kept for deployment compatibility
		c.Environment = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		c.FrontendURL = v
		c.AllowedOrigins = append([]string{v}, c.AllowedOrigins...)
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("DATABASE_URI"); v != "" {
		c.DatabaseURI = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.DBHost = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		c.DBPort = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.DBUser = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.DBPassword = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.DBName = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("COURIER_MAIL_TOKEN"); v != "" {
		c.CourierToken = v
	}
	if v := os.Getenv("COURIER_BASE_URL"); v != "" {
		c.CourierBaseURL = v
	}
	if v := os.Getenv("COURIER_BULK_EVENT"); v != "" {
		c.CourierBulkEvent = v
	}
	if v := os.Getenv("NOTIFY_CHUNK_SIZE"); v != "" {
		c.NotifyChunkSize = mustParseInt(v)
	}
	if v := os.Getenv("NOTIFY_MAX_ATTEMPTS"); v != "" {
		c.NotifyMaxAttempts = mustParseInt(v)
	}
	if v := os.Getenv("NOTIFY_WORKERS"); v != "" {
		c.NotifyWorkers = mustParseInt(v)
	}
	if v := os.Getenv("CLOUDINARY_CLOUD_NAME"); v != "" {
		c.CloudinaryCloudName = v
	}
	if v := os.Getenv("CLOUDINARY_API_KEY"); v != "" {
		c.CloudinaryAPIKey = v
	}
	if v := os.Getenv("CLOUDINARY_API_SECRET"); v != "" {
		c.CloudinaryAPISecret = v
	}
	if v := os.Getenv("HEALTH_PING_URL"); v != "" {
		c.HealthPingURL = v
	}
	if v := os.Getenv("HEALTH_PING_INTERVAL_MIN"); v != "" {
		c.HealthPingIntervalMin = mustParseInt(v)
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		c.GinMode = v
	}
	if v := os.Getenv("GIN_PATH"); v != "" {
		c.GinPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_PATH"); v != "" {
		c.LogPath = v
	}
	if v := os.Getenv("LOG_MAX_SIZE_MB"); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := os.Getenv("LOG_MAX_BACKUPS"); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := os.Getenv("LOG_MAX_AGE_DAYS"); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := os.Getenv("LOG_COMPRESS"); v != "" {
		c.LogCompress = v == "true"
	}
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(m map[string]interface{}, key string) int {
	if v, ok := m[key]; ok {
		switch t := v.(type) {
		case float64:
			return int(t)
		case int:
			return t
		case json.Number:
			i, _ := t.Int64()
			return int(i)
		}
	}
	return 0
}

func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func getStringSlice(m map[string]interface{}, key string) []string {
	if v, ok := m[key]; ok {
		if arr, ok := v.([]interface{}); ok {
			res := make([]string, 0, len(arr))
			for _, it := range arr {
				if s, ok := it.(string); ok {
					res = append(res, s)
				}
			}
			return res
		}
	}
	return nil
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
