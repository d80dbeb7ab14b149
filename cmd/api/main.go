package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wenqig/storyboard/backend/internal/config"
	"github.com/wenqig/storyboard/backend/internal/handler"
	"github.com/wenqig/storyboard/backend/internal/model/show"
	"github.com/wenqig/storyboard/backend/internal/restore"
	"github.com/wenqig/storyboard/backend/internal/service/ai"
	"github.com/wenqig/storyboard/backend/internal/service/generate"
	"github.com/wenqig/storyboard/backend/internal/service/markup"
	"github.com/wenqig/storyboard/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	sessionStore := store.NewSQLiteStore(cfg.Store.Path)
	defer sessionStore.Close()

	openSource := newSourceFactory(ctx, cfg.AI)
	gen := generate.NewService(openSource, sessionStore, markup.NewRenderer(), cfg.Show.Defaults)

	// Restore the last persisted slideshow before serving any request, so a
	// reloading client sees it exactly as a live generation.
	if restored := restore.New(sessionStore).Restore(ctx); restored != nil {
		gen.SetRestored(restored)
	}

	router := handler.NewRouter(gen)

	startServer(ctx, cfg.Server, router)
}

// newSourceFactory initializes the AI collaborator. When credentials are
// missing the factory fails per request instead of crashing the server, so
// restored slideshows still serve.
func newSourceFactory(ctx context.Context, cfg config.AIConfig) generate.SourceFactory {
	if !cfg.Enabled() {
		log.Println("Ark credentials not configured, generation requests will be rejected")
		return func(context.Context, string, show.Settings) (show.FragmentSource, error) {
			return nil, fmt.Errorf("generation model not configured")
		}
	}

	aiService, err := ai.NewService(ctx, cfg)
	if err != nil {
		log.Printf("warning: failed to initialize AI service: %v", err)
		return func(context.Context, string, show.Settings) (show.FragmentSource, error) {
			return nil, fmt.Errorf("generation model unavailable")
		}
	}

	log.Println("AI service initialized successfully")
	return aiService.OpenStream
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Storyboard backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
