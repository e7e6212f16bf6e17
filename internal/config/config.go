package config

import (
	"flag"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN string        `env:"DATABASE_URI"`
	AuthSecret  string        `env:"AUTH_SECRET"`
	AccessTTL   time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTTL  time.Duration `env:"REFRESH_TOKEN_TTL"`
	Monitor     bool          `env:"ENABLE_MONITOR"` // фоновая генерация показателей для подключённых пользователей

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"` // http(s)://BaseURL, вычисляется
	WSURL     string `env:"-"` // ws(s)://BaseURL, схема зеркалит EnableHTTPS
	TokenDir  string `env:"TOKEN_DIR"`
	Verbose   bool   `env:"-"` // verbose client logging (flag only)
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.DurationVar(&cfg.AccessTTL, "access-ttl", cfg.AccessTTL, "время жизни access-токена")
	flag.DurationVar(&cfg.RefreshTTL, "refresh-ttl", cfg.RefreshTTL, "время жизни refresh-токена")
	flag.BoolVar(&cfg.Monitor, "monitor", cfg.Monitor, "enable background vitals generator")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the MedMonitor server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https/wss schemes)")
	// Client flags
	flag.StringVar(&cfg.TokenDir, "token-dir", cfg.TokenDir, "directory for auth token files (client)")
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose client logging")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults валидирует BaseURL и заполняет производные и пустые поля.
// Вынесено отдельно, чтобы тесты могли собирать Config без flag.Parse.
func ApplyDefaults(cfg *Config) {
	if cfg.DatabaseDSN == "" {
		// файл SQLite рядом с бинарём, чтобы сервер запускался без внешней БД
		cfg.DatabaseDSN = "medmonitor.db"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}

	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8080"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
		cfg.WSURL = "wss://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
		cfg.WSURL = "ws://" + cfg.BaseURL
	}
}
