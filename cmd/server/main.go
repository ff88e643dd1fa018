package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anomarpg/internal/config"
	"anomarpg/internal/game"
	"anomarpg/internal/session"
	"anomarpg/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	cat, err := game.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("loaded catalog %s: %d monsters, %d spells, %d items",
		cfg.CatalogPath, len(cat.Monsters), len(cat.Spells), len(cat.Items))

	srv := &web.Server{
		Engine: game.NewEngine(cat, cfg.Locale),
		Store:  session.NewMemoryStore[game.State](),
		Config: cfg,
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s (locale %s)", cfg.Addr, cfg.Locale)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
