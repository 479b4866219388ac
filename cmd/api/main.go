package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"folio.dev/internal/auth"
	"folio.dev/internal/config"
	"folio.dev/internal/content"
	"folio.dev/internal/httpapi"
	"folio.dev/internal/obs"
	"folio.dev/internal/policy"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Postgres when a DSN is configured, in-memory stores otherwise. The
	// in-memory mode keeps local development free of infrastructure.
	var (
		db           *sql.DB
		users        auth.UserStore
		contentStore content.Store
	)
	if cfg.PostgresDSN != "" {
		db, err = sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		users = auth.NewPGStore(db)
		contentStore = content.NewPGStore(db)
	} else {
		log.Printf("FOLIO_PG_DSN not set, using in-memory storage")
		users = auth.NewInMemoryStore()
		contentStore = content.NewInMemory()
	}

	verifier, err := auth.NewVerifier(users, cfg.VerifyConcurrency, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("verifier: %v", err)
	}
	issuer, err := auth.NewIssuer(cfg.TokenSecret, auth.WithTokenTTL(cfg.TokenTTL))
	if err != nil {
		log.Fatalf("issuer: %v", err)
	}
	engine := policy.NewEngine("/api/", policy.DefaultRules())
	svc := content.NewService(contentStore)

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, verifier, issuer, users, engine, svc)
	api.SetLimits(cfg.RateBurst, cfg.RatePerSec, cfg.MaxBodyBytes)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting folio-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
