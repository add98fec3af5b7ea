package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nventive-labs/todosync/internal/api"
	"github.com/nventive-labs/todosync/internal/core/ports"
	"github.com/nventive-labs/todosync/internal/core/service"
	"github.com/nventive-labs/todosync/internal/infrastructure/config"
	"github.com/nventive-labs/todosync/internal/infrastructure/db/memory"
	redisdb "github.com/nventive-labs/todosync/internal/infrastructure/db/redis"
	"github.com/nventive-labs/todosync/internal/infrastructure/db/sqlite"
	"github.com/nventive-labs/todosync/internal/realtime"
	"github.com/nventive-labs/todosync/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg := config.Load(bootLog)

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	var (
		db       *sql.DB
		authRepo ports.AuthRepository
		todoRepo ports.TodoRepository
	)
	if cfg.SQLite.Path != "" {
		opened, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SQLite.Path).Msg("failed to open database")
		}
		defer opened.Close()
		db = opened
		authRepo = sqlite.NewAuthRepository(db)
		todoRepo = sqlite.NewTodoRepository(db)
		log.Info().Str("path", cfg.SQLite.Path).Msg("using sqlite store")
	} else {
		authRepo = memory.NewAuthRepository()
		todoRepo = memory.NewTodoRepository()
		log.Warn().Msg("using in-memory store, state is lost on restart")
	}

	// --- Optional snapshot cache ---
	var (
		rdb   *goredis.Client
		cache service.SnapshotCache
	)
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		defer client.Close()
		rdb = client
		cache = redisdb.NewSnapshotCache(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("todo snapshot cache enabled")
	}

	// --- Services, hub, router ---
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, cfg.TokenTTL)
	todoService := service.NewTodoService(todoRepo, cache, log)

	hub := realtime.NewHub(todoService, log)
	go hub.Run(ctx)

	ws := realtime.NewHandler(hub, authService, log)
	e := api.NewRouter(authService, todoService, ws, db, rdb, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server listen failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
