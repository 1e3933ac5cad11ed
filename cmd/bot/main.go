package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"

	"github.com/jukebox-bot/internal/auth"
	"github.com/jukebox-bot/internal/bot"
	"github.com/jukebox-bot/internal/config"
	"github.com/jukebox-bot/internal/health"
	"github.com/jukebox-bot/internal/jukebox"
	"github.com/jukebox-bot/pkg/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, nil)
	if cfg.Production {
		handler = slog.NewJSONHandler(os.Stdout, nil)
		gin.SetMode(gin.ReleaseMode)
	}
	log := slog.New(handler)

	// Backend client and token minter. The minter is the only holder of the
	// signing secret and of the service credential.
	client := jukebox.NewClient(cfg.APIBaseURL, cfg.APIPublicURL, cfg.RequestTimeout)
	minter, err := auth.NewMinter(cfg.JWTSecret, client)
	if err != nil {
		log.Error("failed to initialize token minter", "error", err)
		os.Exit(1)
	}

	// Command auditing is optional; a nil publisher drops everything.
	var audit *events.Publisher
	if cfg.KafkaBrokers != "" {
		audit = events.NewPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
		defer audit.Close()
		log.Info("audit publishing enabled", "topic", cfg.KafkaTopic)
	}

	router := bot.New(client, minter, cfg.OwnerID, audit, log)

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Error("failed to create Discord session", "error", err)
		os.Exit(1)
	}
	session.Identify.Intents = discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent

	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info("logged in", "user", r.User.Username)
	})
	session.AddHandler(router.HandleMessageCreate)

	if err := session.Open(); err != nil {
		log.Error("failed to open gateway connection", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	if cfg.HealthAddr != "off" {
		healthServer := health.NewServer(cfg.HealthAddr, func() bool {
			return session.DataReady
		})
		go func() {
			if err := healthServer.Run(); err != nil {
				log.Error("health server stopped", "error", err)
			}
		}()
		log.Info("health endpoint listening", "addr", cfg.HealthAddr)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
}
