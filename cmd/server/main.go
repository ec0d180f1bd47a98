// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/misfortune-gg/misfortune/internal/auth"
	"github.com/misfortune-gg/misfortune/internal/catalog"
	"github.com/misfortune-gg/misfortune/internal/database"
	"github.com/misfortune-gg/misfortune/internal/game"
	"github.com/misfortune-gg/misfortune/internal/handlers"
	"github.com/misfortune-gg/misfortune/internal/history"
	"github.com/misfortune-gg/misfortune/internal/middleware"
)

func main() {
	logger := logrus.New()
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := auth.Init(); err != nil {
		log.Fatalf("auth init: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pool, err := database.Connect(ctx)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	store := database.NewStore(pool)

	cards, err := store.LoadCatalog(ctx)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	cat, err := catalog.New(cards)
	if err != nil {
		log.Fatalf("invalid catalog: %v", err)
	}
	logger.Infof("catalog loaded with %d cards", cat.Size())

	engine := game.NewEngine(store, cat, logger)

	// Audit trail is best effort; the game runs without Redis.
	if pub, err := history.Connect(ctx); err != nil {
		logger.WithError(err).Warn("round audit queue unavailable")
	} else {
		engine.Audit = pub
		defer pub.Close()
	}

	api := handlers.NewAPI(engine, store, logger)
	mux := http.NewServeMux()
	api.Routes(mux)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	server := &http.Server{
		Addr:    addr,
		Handler: middleware.Logging(logger)(mux),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		log.Fatalf("server exited: %v", err)
	case <-ctx.Done():
		logger.Info("shutting down")
		server.Shutdown(context.Background())
	}
}
