package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cfbwatch/scoreboard/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string

	CFBDBaseURL               string
	CFBDToken                 string
	CFBDTimeout               time.Duration
	CFBDMaxRetries            int
	CFBDCircuitEnabled        bool
	CFBDCircuitFailureCount   int
	CFBDCircuitOpenTimeout    time.Duration
	CFBDCircuitHalfOpenMaxReq int

	SeasonYear      string
	Division        string
	Classification  string
	BettingProvider string

	PollInterval  time.Duration
	FeedCacheTTL  time.Duration
	LinesCacheTTL time.Duration
	TeamInfoTTL   time.Duration
	FeedWorkers   int

	TeamInfoPath     string
	OffenseStatsPath string
	DefenseStatsPath string
	LogoDenylist     []string

	ColorDistanceThreshold float64

	PushEnabled               bool
	PushWebhookURL            string
	PushToken                 string
	PushTimeout               time.Duration
	PushCircuitEnabled        bool
	PushCircuitFailureCount   int
	PushCircuitOpenTimeout    time.Duration
	PushCircuitHalfOpenMaxReq int

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

// defaultLogoDenylist holds provider logo URLs known to be broken or wrong.
const defaultLogoDenylist = "http://a.espncdn.com/i/teamlogos/ncaa/500/3253.png"

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfbdToken := strings.TrimSpace(getEnv("CFBD_API_KEY", ""))
	if cfbdToken == "" {
		return Config{}, fmt.Errorf("CFBD_API_KEY is required")
	}
	cfbdTimeout, err := time.ParseDuration(getEnv("CFBD_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CFBD_TIMEOUT: %w", err)
	}
	if cfbdTimeout <= 0 {
		return Config{}, fmt.Errorf("CFBD_TIMEOUT must be > 0")
	}
	cfbdMaxRetries, err := getEnvAsInt("CFBD_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CFBD_MAX_RETRIES: %w", err)
	}
	if cfbdMaxRetries < 0 {
		return Config{}, fmt.Errorf("CFBD_MAX_RETRIES must be >= 0")
	}
	cfbdCircuitEnabled, err := strconv.ParseBool(getEnv("CFBD_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CFBD_CIRCUIT_ENABLED: %w", err)
	}
	cfbdCircuitFailureCount, err := getEnvAsInt("CFBD_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CFBD_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfbdCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("CFBD_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfbdCircuitOpenTimeout, err := time.ParseDuration(getEnv("CFBD_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CFBD_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cfbdCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("CFBD_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cfbdCircuitHalfOpenMaxReq, err := getEnvAsInt("CFBD_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CFBD_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfbdCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("CFBD_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	pollInterval, err := time.ParseDuration(getEnv("POLL_INTERVAL", "12s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_INTERVAL: %w", err)
	}
	if pollInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be > 0")
	}
	feedCacheTTL, err := time.ParseDuration(getEnv("FEED_CACHE_TTL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CACHE_TTL: %w", err)
	}
	if feedCacheTTL <= 0 {
		return Config{}, fmt.Errorf("FEED_CACHE_TTL must be > 0")
	}
	linesCacheTTL, err := time.ParseDuration(getEnv("LINES_CACHE_TTL", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LINES_CACHE_TTL: %w", err)
	}
	if linesCacheTTL <= 0 {
		return Config{}, fmt.Errorf("LINES_CACHE_TTL must be > 0")
	}
	teamInfoTTL, err := time.ParseDuration(getEnv("TEAM_INFO_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TEAM_INFO_TTL: %w", err)
	}
	if teamInfoTTL <= 0 {
		return Config{}, fmt.Errorf("TEAM_INFO_TTL must be > 0")
	}
	feedWorkers, err := getEnvAsInt("FEED_WORKERS", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_WORKERS: %w", err)
	}
	if feedWorkers < 1 {
		return Config{}, fmt.Errorf("FEED_WORKERS must be >= 1")
	}

	colorThreshold, err := getEnvAsFloat("COLOR_DISTANCE_THRESHOLD", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse COLOR_DISTANCE_THRESHOLD: %w", err)
	}
	if colorThreshold <= 0 {
		return Config{}, fmt.Errorf("COLOR_DISTANCE_THRESHOLD must be > 0")
	}

	pushEnabled, err := strconv.ParseBool(getEnv("PUSH_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PUSH_ENABLED: %w", err)
	}
	pushWebhookURL := strings.TrimSpace(getEnv("PUSH_WEBHOOK_URL", ""))
	if pushEnabled && pushWebhookURL == "" {
		return Config{}, fmt.Errorf("PUSH_WEBHOOK_URL is required when PUSH_ENABLED=true")
	}
	pushTimeout, err := time.ParseDuration(getEnv("PUSH_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PUSH_TIMEOUT: %w", err)
	}
	if pushTimeout <= 0 {
		return Config{}, fmt.Errorf("PUSH_TIMEOUT must be > 0")
	}
	pushCircuitEnabled, err := strconv.ParseBool(getEnv("PUSH_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PUSH_CIRCUIT_ENABLED: %w", err)
	}
	pushCircuitFailureCount, err := getEnvAsInt("PUSH_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse PUSH_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if pushCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("PUSH_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	pushCircuitOpenTimeout, err := time.ParseDuration(getEnv("PUSH_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PUSH_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if pushCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("PUSH_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	pushCircuitHalfOpenMaxReq, err := getEnvAsInt("PUSH_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse PUSH_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if pushCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("PUSH_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
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

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "cfb-scoreboard-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		CFBDBaseURL:               strings.TrimSpace(getEnv("CFBD_BASE_URL", "https://api.collegefootballdata.com")),
		CFBDToken:                 cfbdToken,
		CFBDTimeout:               cfbdTimeout,
		CFBDMaxRetries:            cfbdMaxRetries,
		CFBDCircuitEnabled:        cfbdCircuitEnabled,
		CFBDCircuitFailureCount:   cfbdCircuitFailureCount,
		CFBDCircuitOpenTimeout:    cfbdCircuitOpenTimeout,
		CFBDCircuitHalfOpenMaxReq: cfbdCircuitHalfOpenMaxReq,

		SeasonYear:      strings.TrimSpace(getEnv("SEASON_YEAR", "2024")),
		Division:        strings.TrimSpace(getEnv("DIVISION", "fbs")),
		Classification:  strings.TrimSpace(getEnv("CLASSIFICATION", "fbs")),
		BettingProvider: strings.TrimSpace(getEnv("BETTING_PROVIDER", "ESPN Bet")),

		PollInterval:  pollInterval,
		FeedCacheTTL:  feedCacheTTL,
		LinesCacheTTL: linesCacheTTL,
		TeamInfoTTL:   teamInfoTTL,
		FeedWorkers:   feedWorkers,

		TeamInfoPath:     strings.TrimSpace(getEnv("TEAM_INFO_PATH", "data/team_info.json")),
		OffenseStatsPath: strings.TrimSpace(getEnv("OFFENSE_STATS_PATH", "data/offense_stats.json")),
		DefenseStatsPath: strings.TrimSpace(getEnv("DEFENSE_STATS_PATH", "data/defense_stats.json")),
		LogoDenylist:     splitCSV(getEnv("LOGO_DENYLIST", defaultLogoDenylist)),

		ColorDistanceThreshold: colorThreshold,

		PushEnabled:               pushEnabled,
		PushWebhookURL:            pushWebhookURL,
		PushToken:                 strings.TrimSpace(getEnv("PUSH_TOKEN", "")),
		PushTimeout:               pushTimeout,
		PushCircuitEnabled:        pushCircuitEnabled,
		PushCircuitFailureCount:   pushCircuitFailureCount,
		PushCircuitOpenTimeout:    pushCircuitOpenTimeout,
		PushCircuitHalfOpenMaxReq: pushCircuitHalfOpenMaxReq,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.SeasonYear == "" {
		return Config{}, fmt.Errorf("SEASON_YEAR cannot be empty")
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

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
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
