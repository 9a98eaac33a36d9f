package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medibill/backend/internal/config"
	"medibill/backend/internal/draft"
	"medibill/backend/internal/httpapi"
	"medibill/backend/internal/service"
	"medibill/backend/internal/store"
	filestore "medibill/backend/internal/store/file"
	pgstore "medibill/backend/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with the file store instead", err)
		}
		repo = pg
		closers = append(closers, pg.Close)
		log.Println("inventory store: postgres")
	} else {
		fs, err := filestore.New(cfg.DataDir)
		if err != nil {
			log.Fatalf("file store: %v", err)
		}
		repo = fs
		log.Printf("inventory store: file (%s)", fs.Path())
	}

	var drafts draft.Store
	if cfg.RedisAddr != "" {
		redisDrafts := draft.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StationID)
		if err := redisDrafts.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using file draft store", err)
		} else {
			drafts = redisDrafts
			closers = append(closers, redisDrafts.Close)
			log.Println("draft store: redis")
		}
	}
	if drafts == nil {
		fileDrafts, err := draft.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("draft store: %v", err)
		}
		drafts = fileDrafts
		log.Println("draft store: file")
	}

	svc := service.New(repo, drafts)
	auth, err := httpapi.NewAuthManager(
		cfg.AuthSecret,
		time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute,
		cfg.OperatorUsername,
		cfg.OperatorPassword,
	)
	if err != nil {
		log.Fatalf("auth setup: %v", err)
	}
	api := httpapi.New(svc, auth, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("bill entry backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if cfg.OperatorPassword == "" {
		return fmt.Errorf("OPERATOR_PASSWORD must be set")
	}
	return nil
}
