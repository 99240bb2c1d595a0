package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paulinepos/internal/config"
	"paulinepos/internal/infra"
	"paulinepos/internal/repository"
	"paulinepos/internal/router"
	"paulinepos/internal/store"
	"paulinepos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server exited")
}

func run(cfg *config.Config) error {
	// Structured logger: dev pretty, prod JSON
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open snapshot storage: %w", err)
	}
	defer backend.Close()

	pcfg := worker.PersisterConfig{Debounce: cfg.PersistDebounce()}
	if backend.Remote {
		cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
		cb.OnTransition(func(from, to infra.CBState) {
			log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("storage circuit breaker")
		})
		pcfg.Breaker = cb
	}

	st := store.New(store.WithLocation(cfg.Location()))
	persister := worker.NewPersister(backend.Repo, pcfg)
	detach := persister.Attach(st)
	defer detach()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(cfg, router.Deps{Store: st, Repo: backend.Repo, Persister: persister}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// The server answers 503 on everything but /health until hydration ends.
	g.Go(func() error {
		log.Info().Msgf("Pauline POS listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := st.Hydrate(gctx, backend.Repo); err != nil {
			return fmt.Errorf("hydrate: %w", err)
		}
		log.Info().Str("backend", backend.Repo.Backend()).Msg("store hydrated")
		return persister.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	runErr := g.Wait()

	// write whatever the last requests changed
	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if st.Hydrated() {
		if err := persister.Flush(flushCtx); err != nil {
			log.Error().Err(err).Msg("final snapshot flush failed")
		}
	}
	return runErr
}
