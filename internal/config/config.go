package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting for the server. Values come from
// environment variables (BOOKSHELF_ prefix) with sane local defaults, so the
// binary runs out of the box against a local redis and a sqlite file.
type Config struct {
	ListenAddr string
	DBPath     string
	RedisAddr  string

	BooksAPIBaseURL string
	BooksAPIKey     string
	BooksTimeout    time.Duration

	SessionTTL    time.Duration
	SessionCookie string

	OTLPCollectorAddr string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("bookshelf")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("db_path", "./bookshelf.db")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("books_api_base_url", "https://www.googleapis.com/books/v1")
	v.SetDefault("books_api_key", "")
	v.SetDefault("books_timeout", "10s")
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("session_cookie", "session_token")
	v.SetDefault("otlp_collector_addr", "otel-collector:4317")

	return &Config{
		ListenAddr:        v.GetString("listen_addr"),
		DBPath:            v.GetString("db_path"),
		RedisAddr:         v.GetString("redis_addr"),
		BooksAPIBaseURL:   v.GetString("books_api_base_url"),
		BooksAPIKey:       v.GetString("books_api_key"),
		BooksTimeout:      v.GetDuration("books_timeout"),
		SessionTTL:        v.GetDuration("session_ttl"),
		SessionCookie:     v.GetString("session_cookie"),
		OTLPCollectorAddr: v.GetString("otlp_collector_addr"),
	}, nil
}
