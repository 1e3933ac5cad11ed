package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration, loaded once at startup and
// injected into every component. There are no ambient globals; the signing
// secret and HTTP client live only where they are needed.
type Config struct {
	// DiscordToken authenticates the gateway session.
	DiscordToken string

	// APIBaseURL is the jukebox backend the bot issues calls against.
	APIBaseURL string

	// APIPublicURL is the externally reachable backend address, used only to
	// build thumbnail URLs that Discord itself fetches.
	APIPublicURL string

	// JWTSecret signs both the service credential and per-user tokens.
	JWTSecret string

	// OwnerID gates moderation commands. Empty disables them entirely.
	OwnerID string

	// HealthAddr is the listen address for the liveness endpoint.
	// "off" disables the listener.
	HealthAddr string

	// KafkaBrokers enables command-audit publishing when non-empty.
	KafkaBrokers string
	KafkaTopic   string

	// RequestTimeout bounds every backend call. No retries are attempted.
	RequestTimeout time.Duration

	Production bool
}

// Load reads configuration from the environment. Outside production a .env
// file is consulted first, matching how the bot is run in development.
func Load() (*Config, error) {
	production := os.Getenv("ENV") == "production"
	if !production {
		// A missing .env file is fine; real env vars may be set instead.
		_ = godotenv.Load()
	}

	cfg := &Config{
		DiscordToken:   os.Getenv("DISCORD_BOT_TOKEN"),
		APIBaseURL:     os.Getenv("API_BASE_URL"),
		APIPublicURL:   os.Getenv("API_PUBLIC_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		OwnerID:        os.Getenv("OWNER_ID"),
		HealthAddr:     os.Getenv("HEALTH_ADDR"),
		KafkaBrokers:   os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:     os.Getenv("KAFKA_TOPIC"),
		RequestTimeout: 60 * time.Second,
		Production:     production,
	}

	if cfg.HealthAddr == "" {
		cfg.HealthAddr = ":8080"
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = "jukebox-command-audit"
	}
	if cfg.APIPublicURL == "" {
		cfg.APIPublicURL = cfg.APIBaseURL
	}

	for name, value := range map[string]string{
		"DISCORD_BOT_TOKEN": cfg.DiscordToken,
		"API_BASE_URL":      cfg.APIBaseURL,
		"JWT_SECRET":        cfg.JWTSecret,
	} {
		if value == "" {
			return nil, fmt.Errorf("config: %s environment variable is not set", name)
		}
	}

	return cfg, nil
}
