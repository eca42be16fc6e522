package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/esports-hub/internal/platform/logging"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	LogLevel                logging.Level
	StorageDriver           string
	DBURL                   string
	DBDisablePreparedBinary bool
	DBMaxOpenConns          int
	DBCircuitEnabled        bool
	DBCircuitFailureCount   int
	DBCircuitOpenTimeout    time.Duration
	DBCircuitHalfOpenMaxReq int
	CacheEnabled            bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string
	AuthJWTSecret           string
	AuthJWTIssuer           string
	IngestMaxBatch          int
	AutoPromoteEnabled      bool
	AutoPromoteInterval     time.Duration
	NotifyWorkers           int
	PprofEnabled            bool
	PprofAddr               string
	UptraceEnabled          bool
	UptraceDSN              string
	UptraceLogsEnabled      bool
	PyroscopeEnabled        bool
	PyroscopeServerAddress  string
	PyroscopeAppName        string
	PyroscopeAuthToken      string
	PyroscopeUploadRate     time.Duration
}

// ExposeErrorDetail reports whether 5xx responses may carry internal messages.
func (c Config) ExposeErrorDetail() bool {
	return c.AppEnv == EnvDev
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	storageDriver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	if storageDriver != StorageMemory && storageDriver != StoragePostgres {
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", storageDriver, StorageMemory, StoragePostgres)
	}
	dbURL, dbDisablePreparedBinary, err := loadDatabaseURL()
	if err != nil {
		return Config{}, err
	}
	dbMaxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if dbMaxOpenConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}

	dbCircuitEnabled, err := strconv.ParseBool(getEnv("DB_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_CIRCUIT_ENABLED: %w", err)
	}
	dbCircuitFailureCount, err := getEnvAsInt("DB_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if dbCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("DB_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	dbCircuitOpenTimeout, err := time.ParseDuration(getEnv("DB_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if dbCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("DB_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	dbCircuitHalfOpenMaxReq, err := getEnvAsInt("DB_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if dbCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("DB_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	corsAllowedOrigins := splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if len(corsAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	authJWTSecret := strings.TrimSpace(getEnv("AUTH_JWT_SECRET", ""))
	if appEnv == EnvProd && authJWTSecret == "" {
		return Config{}, fmt.Errorf("AUTH_JWT_SECRET is required when APP_ENV=%s", EnvProd)
	}

	ingestMaxBatch, err := getEnvAsInt("INGEST_MAX_BATCH", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse INGEST_MAX_BATCH: %w", err)
	}
	if ingestMaxBatch < 1 {
		return Config{}, fmt.Errorf("INGEST_MAX_BATCH must be >= 1")
	}

	autoPromoteEnabled, err := strconv.ParseBool(getEnv("EVENT_AUTO_PROMOTE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EVENT_AUTO_PROMOTE_ENABLED: %w", err)
	}
	autoPromoteInterval, err := time.ParseDuration(getEnv("EVENT_AUTO_PROMOTE_INTERVAL", "1m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EVENT_AUTO_PROMOTE_INTERVAL: %w", err)
	}
	if autoPromoteInterval <= 0 {
		return Config{}, fmt.Errorf("EVENT_AUTO_PROMOTE_INTERVAL must be > 0")
	}

	notifyWorkers, err := getEnvAsInt("NOTIFY_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_WORKERS: %w", err)
	}
	if notifyWorkers < 1 {
		return Config{}, fmt.Errorf("NOTIFY_WORKERS must be >= 1")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "esports-hub-api"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		LogLevel:                parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		StorageDriver:           storageDriver,
		DBURL:                   dbURL,
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		DBMaxOpenConns:          dbMaxOpenConns,
		DBCircuitEnabled:        dbCircuitEnabled,
		DBCircuitFailureCount:   dbCircuitFailureCount,
		DBCircuitOpenTimeout:    dbCircuitOpenTimeout,
		DBCircuitHalfOpenMaxReq: dbCircuitHalfOpenMaxReq,
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,
		CORSAllowedOrigins:      corsAllowedOrigins,
		AuthJWTSecret:           authJWTSecret,
		AuthJWTIssuer:           strings.TrimSpace(getEnv("AUTH_JWT_ISSUER", "")),
		IngestMaxBatch:          ingestMaxBatch,
		AutoPromoteEnabled:      autoPromoteEnabled,
		AutoPromoteInterval:     autoPromoteInterval,
		NotifyWorkers:           notifyWorkers,
		PprofEnabled:            pprofEnabled,
		PprofAddr:               pprofAddr,
		UptraceEnabled:          uptraceEnabled,
		UptraceDSN:              uptraceDSN,
		UptraceLogsEnabled:      uptraceLogsEnabled,
		PyroscopeEnabled:        pyroscopeEnabled,
		PyroscopeServerAddress:  pyroscopeServerAddress,
		PyroscopeAuthToken:      strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:     pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
