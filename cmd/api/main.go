// @title          Backlog API
// @version        1.0
// @description    Agile backlog management: projects, backlogs, epics, user stories and test cases.
// @BasePath       /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
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

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/agileworks/backlog-api/docs"
	"github.com/agileworks/backlog-api/internal/api"
	"github.com/agileworks/backlog-api/internal/core/ports"
	"github.com/agileworks/backlog-api/internal/core/service"
	"github.com/agileworks/backlog-api/internal/infrastructure/db/memory"
	"github.com/agileworks/backlog-api/internal/infrastructure/db/mongo"
	"github.com/agileworks/backlog-api/internal/infrastructure/db/redis"
	"github.com/agileworks/backlog-api/internal/infrastructure/http/handlers"
	"github.com/agileworks/backlog-api/internal/pkg/config"
	"github.com/agileworks/backlog-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "backlog-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "backlog-api",
	})

	checks := map[string]handlers.Check{}

	repos, tx, closeStore, err := openStorage(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeStore()

	auth := service.AuthOptions{JWTSecret: cfg.JWTSecret, TokenTTL: cfg.JWTTTL}
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		checks["redis"] = handlers.RedisCheck(rdb)
		auth.Throttle = newThrottle(rdb, cfg)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected, login throttling enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttling disabled")
	}

	e := api.NewRouter(api.Options{
		Services:     service.NewServices(repos, tx, auth, log),
		JWTSecret:    cfg.JWTSecret,
		Log:          log,
		HealthChecks: checks,
		AllowOrigins: cfg.HTTP.AllowOrigins,
		RateLimitRPS: cfg.HTTP.RateLimitRPS,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newThrottle(rdb *goredis.Client, cfg *config.Config) service.LoginThrottle {
	return redis.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
}

// openStorage selects the repository implementation and registers its
// readiness check.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger, checks map[string]handlers.Check) (service.Repositories, ports.Transactor, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		store := memory.New()
		return service.Repositories{
			Users:           store.Users(),
			Projects:        store.Projects(),
			ProductBacklogs: store.ProductBacklogs(),
			SprintBacklogs:  store.SprintBacklogs(),
			Epics:           store.Epics(),
			UserStories:     store.UserStories(),
			Roles:           store.Roles(),
			TestCases:       store.TestCases(),
		}, store, func() {}, nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return service.Repositories{}, nil, nil, err
	}
	closeFn := func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}

	r := mongo.NewRepositories(db)
	if err := r.EnsureIndexes(ctx); err != nil {
		closeFn()
		return service.Repositories{}, nil, nil, err
	}
	checks["mongodb"] = handlers.MongoCheck(db)
	log.Info().Str("database", cfg.Mongo.Database).Bool("transactions", cfg.Mongo.Transactions).Msg("mongodb connected")

	return service.Repositories{
		Users:           r.Users,
		Projects:        r.Projects,
		ProductBacklogs: r.ProductBacklogs,
		SprintBacklogs:  r.SprintBacklogs,
		Epics:           r.Epics,
		UserStories:     r.UserStories,
		Roles:           r.Roles,
		TestCases:       r.TestCases,
	}, mongo.NewTransactor(client, cfg.Mongo.Transactions), closeFn, nil
}
