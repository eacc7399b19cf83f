// @title        Account Entry API
// @version      1.0
// @description  Sign-up form sessions, one-shot registration and demo sign-in.
// @BasePath     /
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

	"github.com/rs/zerolog"

	"github.com/projecthub/account-entry/internal/api"
	"github.com/projecthub/account-entry/internal/api/handler"
	"github.com/projecthub/account-entry/internal/core/ports"
	"github.com/projecthub/account-entry/internal/core/service"
	"github.com/projecthub/account-entry/internal/infrastructure/db/memory"
	mongostore "github.com/projecthub/account-entry/internal/infrastructure/db/mongo"
	redisstore "github.com/projecthub/account-entry/internal/infrastructure/db/redis"
	"github.com/projecthub/account-entry/internal/infrastructure/queue"
	"github.com/projecthub/account-entry/internal/pkg/config"
	"github.com/projecthub/account-entry/pkg/logger"
)

const (
	serviceName     = "accountd"
	redisKeyPrefix  = "accounts"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("store init failed")
	}
	defer backend.close()

	dispatcher := queue.NewDispatcher(cfg.Signup.CommitWorkers, log)
	dispatcher.Start()

	signup := service.NewSignupService(service.SignupServiceConfig{
		Store:     backend.store,
		Scheduler: dispatcher,
		StoreKey:  cfg.Store.Key,
		Delay:     cfg.Signup.CommitDelay,
		Listener:  backend.listener,
	}, log)

	e := api.NewRouter(api.Deps{
		Signup: signup,
		Login:  service.NewLoginService(log),
		Ready:  map[string]handler.Pinger{"store": backend.store},
		Log:    log,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Str("backend", cfg.Store.Backend).Msg("http listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
	// Commits already accepted still run before the store is closed.
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("commit drain incomplete")
	}
}

type backend struct {
	store    ports.AccountStore
	listener ports.SignupListener
	close    func()
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return &backend{
			store: redisstore.NewAccountStore(client, redisKeyPrefix, 0),
			close: func() {
				if err := client.Close(); err != nil {
					log.Warn().Err(err).Msg("redis close error")
				}
			},
		}, nil

	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		archive := mongostore.NewAccountArchive(db, log)
		if err := archive.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("account archive indexes not created")
		}
		return &backend{
			store:    mongostore.NewAccountStore(db, cfg.Mongo.Collection),
			listener: archive,
			close: func() {
				disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := client.Disconnect(disconnectCtx); err != nil {
					log.Warn().Err(err).Msg("mongo disconnect error")
				}
			},
		}, nil

	case config.BackendMemory:
		return &backend{store: memory.NewAccountStore(), close: func() {}}, nil
	}
	return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
}
