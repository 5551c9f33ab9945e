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

	"squadup/backend/internal/auth"
	"squadup/backend/internal/catalog"
	"squadup/backend/internal/config"
	"squadup/backend/internal/database"
	"squadup/backend/internal/guard"
	"squadup/backend/internal/handler"
	"squadup/backend/internal/hub"
	"squadup/backend/internal/lobby"
	"squadup/backend/internal/logger"
	"squadup/backend/internal/relay"
	"squadup/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	// Swagger imports
	_ "squadup/backend/docs" // This is important for swag to find the generated docs
)

// @title           SquadUp API
// @version         1.0
// @description     Lobby coordination API for mobile squads: create, browse, join and follow lobbies live.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env, cfg.LogLevel)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store initialization failed")
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat := catalog.Default()
	events := hub.NewHub(cfg.SubscriberBuffer, log)
	svc := lobby.NewService(st, guard.New(), events, auth.ContextIdentity{}, cat, lobby.Options{
		LockTimeout: cfg.LockTimeout,
		BcryptCost:  cfg.BcryptCost,
	}, log)
	accounts := auth.NewAccounts(st, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost, log)

	var workers conc.WaitGroup

	if cfg.RedisURL != "" {
		r, err := relay.Dial(ctx, cfg.RedisURL, cfg.RedisChannel, log)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer r.Close()
		svc.Mirror(r)
		workers.Go(func() { _ = r.Run(ctx) })
		log.Info().Str("channel", cfg.RedisChannel).Msg("mirroring lobby events to redis")
	}

	if cfg.PurgeAfter > 0 {
		janitor := store.NewJanitor(st, cfg.PurgeAfter, cfg.PurgeInterval, log)
		workers.Go(func() { _ = janitor.Run(ctx) })
	}

	router := handler.NewRouter(handler.New(svc, accounts, cat, log), cfg.JWTSecret, log)
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No WriteTimeout: event streams stay open for as long as the client listens.
	}

	workers.Go(func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("store", cfg.StoreDriver).
			Msg("starting SquadUp server")
		log.Info().Msgf("Swagger UI is available at http://localhost:%s/swagger/index.html", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	})

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	// Closing the hub ends every open event stream so Shutdown does not wait on them.
	events.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	workers.Wait()
	log.Info().Msg("server stopped")
}

func openStore(cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return store.NewMemStore()
	case config.StoreSQLite:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "squadup.db"
		}
		db, err := database.Open(database.DriverSQLite, dsn, log)
		if err != nil {
			return nil, err
		}
		return store.NewSQLStore(db), nil
	case config.StorePostgres:
		db, err := database.Open(database.DriverPostgres, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		return store.NewSQLStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
