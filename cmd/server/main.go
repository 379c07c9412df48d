// Command server runs the community bulletin board API.
//
// With MONGO_URI and REDIS_ADDR set it runs against those stores; with
// either unset the corresponding in-process fallback takes over, so a bare
// `go run ./cmd/server` serves a fully working board from local files.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ebhcs/bulletin-board/internal/api"
	"github.com/ebhcs/bulletin-board/internal/api/handler"
	"github.com/ebhcs/bulletin-board/internal/core/ports"
	"github.com/ebhcs/bulletin-board/internal/core/service"
	"github.com/ebhcs/bulletin-board/internal/imaging"
	"github.com/ebhcs/bulletin-board/internal/infrastructure/config"
	localdb "github.com/ebhcs/bulletin-board/internal/infrastructure/db/local"
	mongodb "github.com/ebhcs/bulletin-board/internal/infrastructure/db/mongo"
	redisdb "github.com/ebhcs/bulletin-board/internal/infrastructure/db/redis"
	"github.com/ebhcs/bulletin-board/internal/infrastructure/live"
	"github.com/ebhcs/bulletin-board/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg := config.Load(slog.Default())
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	broadcaster := live.NewBroadcaster(log)

	var (
		bulletinRepo ports.BulletinRepository
		advisorRepo  ports.AdvisorRepository
		attachments  handler.AttachmentStore
		mongoDB      *mongo.Database
		mongoClient  *mongo.Client
	)

	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		mongoClient, mongoDB = client, db

		repo := mongodb.NewBulletinRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("bulletin index creation failed")
		}
		advisors := mongodb.NewAdvisorRepository(db)
		if err := advisors.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("advisor index creation failed")
		}
		store, err := mongodb.NewAttachmentStore(db)
		if err != nil {
			log.Fatal().Err(err).Msg("attachment store init failed")
		}

		bulletinRepo, advisorRepo, attachments = repo, advisors, store

		watcher := mongodb.NewWatcher(repo, broadcaster, log)
		go watcher.Run(ctx)

		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongodb store")
	} else {
		store, err := localdb.NewBulletinStore(cfg.DataDir, broadcaster, log)
		if err != nil {
			log.Fatal().Err(err).Msg("local bulletin store init failed")
		}
		advisors, err := localdb.NewAdvisorStore(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("local advisor store init failed")
		}
		bulletinRepo, advisorRepo = store, advisors

		log.Info().Str("data_dir", cfg.DataDir).Msg("using local file store")
	}

	var (
		lockouts    service.LockoutStore
		memoCache   imaging.MemoCache
		redisClient *redis.Client
	)

	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		redisClient = client
		lockouts = redisdb.NewLockoutStore(client, service.LockoutWindow)
		memoCache = redisdb.NewImageCache(client)

		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis for lockouts and image cache")
	} else {
		lockouts = localdb.NewLockoutStore(service.LockoutWindow)
	}

	bulletinService := service.NewBulletinService(bulletinRepo, nil, log)
	authService := service.NewAuthService(advisorRepo, lockouts, cfg.JWTSecret, 24*time.Hour, log)
	optimizer := imaging.NewOptimizer(memoCache, log)

	e := api.NewRouter(api.Deps{
		Log:             log,
		JWTSecret:       cfg.JWTSecret,
		PublicBaseURL:   cfg.PublicBaseURL,
		BulletinService: bulletinService,
		AuthService:     authService,
		Optimizer:       optimizer,
		Snapshots:       broadcaster,
		Attachments:     attachments,
		Mongo:           mongoDB,
		Redis:           redisClient,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("bulletin board listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}
}
