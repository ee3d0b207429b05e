package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Friend    FriendConfig
	Wish      WishConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port string
	Env  string
}

// DBConfig describes the local SQLite file backing the click counter and the message feed.
type DBConfig struct {
	Path         string
	BusyTimeout  time.Duration
	MaxOpenConns int
}

type RedisConfig struct {
	Host string
	Port string
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type FriendConfig struct {
	Name          string
	ProfileURL    string
	RedirectDelay time.Duration
}

type WishConfig struct {
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	Timeout       time.Duration
	CacheTTL      time.Duration
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	MessagesPerMinute int
}

const (
	defaultPort       = "8080"
	defaultDBPath     = "data.db"
	defaultFriendName = "My Friend"
	defaultFriendURL  = "https://www.linkedin.com/in/vamsi-boyapati-a98107213"
	defaultModel      = "gpt-4o-mini"
	defaultCookie     = "ctw_session"
)

// Load читает конфигурацию из .env (если файл есть) и переменных окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile читает конфигурацию из указанного env-файла; отсутствие файла не считается ошибкой
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	cfg.App.Port = v.GetString("APP_PORT")
	cfg.App.Env = strings.ToLower(v.GetString("APP_ENV"))

	cfg.DB.Path = v.GetString("DB_PATH")
	cfg.DB.BusyTimeout = time.Duration(positiveInt(v, "DB_BUSY_TIMEOUT_MS", 5000)) * time.Millisecond
	cfg.DB.MaxOpenConns = positiveInt(v, "DB_MAX_OPEN_CONNS", 8)

	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetString("REDIS_PORT")

	cfg.Friend.Name = v.GetString("FRIEND_NAME")
	cfg.Friend.ProfileURL = v.GetString("FRIEND_LINKEDIN_URL")
	cfg.Friend.RedirectDelay = time.Duration(nonNegativeInt(v, "REDIRECT_DELAY_SEC", 6)) * time.Second

	cfg.Wish.OpenAIKey = strings.TrimSpace(v.GetString("OPENAI_API_KEY"))
	cfg.Wish.OpenAIModel = v.GetString("OPENAI_MODEL")
	cfg.Wish.OpenAIBaseURL = v.GetString("OPENAI_BASE_URL")
	cfg.Wish.Timeout = time.Duration(positiveInt(v, "WISH_TIMEOUT_SEC", 8)) * time.Second
	cfg.Wish.CacheTTL = time.Duration(positiveInt(v, "WISH_CACHE_TTL_SEC", 60)) * time.Second

	cfg.Session.CookieName = v.GetString("SESSION_COOKIE")
	cfg.Session.TTL = time.Duration(positiveInt(v, "SESSION_TTL_MIN", 30)) * time.Minute

	// Rate limit config
	cfg.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_RPS")
	if cfg.RateLimit.RequestsPerSecond <= 0 {
		cfg.RateLimit.RequestsPerSecond = 10
	}
	cfg.RateLimit.BurstSize = positiveInt(v, "RATE_LIMIT_BURST", 20)
	cfg.RateLimit.MessagesPerMinute = positiveInt(v, "MESSAGE_RATE_PER_MIN", 6)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", defaultPort)
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("DB_PATH", defaultDBPath)
	v.SetDefault("FRIEND_NAME", defaultFriendName)
	v.SetDefault("FRIEND_LINKEDIN_URL", defaultFriendURL)
	v.SetDefault("OPENAI_MODEL", defaultModel)
	v.SetDefault("SESSION_COOKIE", defaultCookie)
}

// positiveInt возвращает значение ключа или def, если оно не задано или не положительное
func positiveInt(v *viper.Viper, key string, def int) int {
	n := v.GetInt(key)
	if n <= 0 {
		return def
	}
	return n
}

func nonNegativeInt(v *viper.Viper, key string, def int) int {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
