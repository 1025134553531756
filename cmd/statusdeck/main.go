package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/statusdeck/statusdeck/db"
	"github.com/statusdeck/statusdeck/internal/actions"
	"github.com/statusdeck/statusdeck/internal/auth"
	"github.com/statusdeck/statusdeck/internal/config"
	"github.com/statusdeck/statusdeck/internal/mailer"
	"github.com/statusdeck/statusdeck/internal/otp"
	"github.com/statusdeck/statusdeck/internal/realtime"
	"github.com/statusdeck/statusdeck/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := auth.InitJWTSecret(cfg.JWTSecret); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	hub := realtime.NewHub()

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		relay := realtime.NewRedisRelay(client)
		hub.UseRelay(relay)
		go relay.Subscribe(context.Background(), hub)
		log.Printf("Realtime relay enabled via %s", cfg.RedisAddr)
	}

	recorder := actions.NewRecorder(db.DB, hub)
	verifier := otp.NewVerifier(db.DB, mailer.NewSMTPMailer(cfg))

	r := router.NewRouter(router.Deps{
		Recorder: recorder,
		Hub:      hub,
		Verifier: verifier,
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
