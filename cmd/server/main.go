package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/sparklewash/carwash-api/internal/auth"
	"github.com/sparklewash/carwash-api/internal/config"
	"github.com/sparklewash/carwash-api/internal/database"
	"github.com/sparklewash/carwash-api/internal/handler"
	"github.com/sparklewash/carwash-api/internal/queue"
	"github.com/sparklewash/carwash-api/internal/repository"
	"github.com/sparklewash/carwash-api/internal/router"
	audit "github.com/sparklewash/carwash-api/internal/service"
	"github.com/sparklewash/carwash-api/internal/worker"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays)

	var verifier auth.IdentityVerifier
	var flow *auth.GoogleCodeFlow
	if cfg.GoogleEnabled() {
		verifier = auth.NewGoogleVerifier(cfg.GoogleClientID)
		if cfg.GoogleRedirectEnabled() {
			flow = auth.NewGoogleCodeFlow(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		}
	} else {
		log.Printf("google sign-in disabled: GOOGLE_CLIENT_ID not set")
	}

	svc := auth.NewService(users, tokens, issuer, verifier, audit.New())

	// Audit trail consumer; reconnects on its own, never blocks requests.
	go func() {
		if err := queue.StartAuthEventConsumer(); err != nil {
			log.Printf("auth event consumer stopped: %v", err)
		}
	}()

	// Periodic refresh-token garbage collection. The redis client may be nil
	// when no server is reachable; the sweep then runs unlocked, which is
	// safe because it only deletes terminal rows.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: token cleanup sweep runs without cross-instance lock")
	}
	go worker.StartTokenCleanup(tokens, rdb, time.Duration(cfg.TokenCleanupIntervalMin)*time.Minute)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(svc, flow), issuer)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
