package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/christa-jose1/student-migration-portal/internal/cache"
	"github.com/christa-jose1/student-migration-portal/internal/config"
	"github.com/christa-jose1/student-migration-portal/internal/handler"
	"github.com/christa-jose1/student-migration-portal/internal/hub"
	"github.com/christa-jose1/student-migration-portal/internal/notify"
	"github.com/christa-jose1/student-migration-portal/internal/repository"
	"github.com/christa-jose1/student-migration-portal/internal/service"
	"github.com/christa-jose1/student-migration-portal/pkg/jwt"
	"github.com/christa-jose1/student-migration-portal/pkg/log"
	"github.com/christa-jose1/student-migration-portal/pkg/pubsub"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	logger := log.L()
	logger.Info().Int("port", cfg.Server.Port).Msg("starting migration portal")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := repository.Connect(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer db.Client().Disconnect(context.Background())

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	bus, err := pubsub.NewRedisPubSub(cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer bus.Close()

	wsHub := hub.NewHub()
	go wsHub.Run()

	bridge := notify.NewBridge(bus, wsHub)
	go func() {
		if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("notification bridge stopped")
		}
	}()

	chatRepo := repository.NewMongoChatRepository(db)
	userRepo := repository.NewMongoUserRepository(db)
	postRepo := repository.NewMongoPostRepository(db)
	courseRepo := repository.NewMongoCourseRepository(db)
	faqRepo := repository.NewMongoFAQRepository(db)
	guideRepo := repository.NewMongoGuideRepository(db)

	tokens := jwt.NewManager(cfg.Auth.Secret, cfg.Auth.TokenDuration, cfg.Auth.Issuer)
	dirCache := cache.NewRedisCache(bus.GetClient(), cfg.Cache.Prefix, cfg.Cache.TTL)
	fanout := notify.NewFanout(bus)

	chatSvc := service.NewChatService(chatRepo, userRepo, fanout)
	userSvc := service.NewUserService(userRepo, tokens, dirCache)
	postSvc := service.NewPostService(postRepo, userRepo)
	catalogSvc := service.NewCatalogService(courseRepo, faqRepo, guideRepo)

	router := handler.NewRouter(logger, tokens, cfg.CORS.Origins, handler.Handlers{
		Chat:    handler.NewChatHandler(chatSvc),
		User:    handler.NewUserHandler(userSvc),
		Post:    handler.NewPostHandler(postSvc),
		Catalog: handler.NewCatalogHandler(catalogSvc),
		WS:      handler.NewWSHandler(wsHub, hub.DefaultConfig(), cfg.CORS.Origins),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("stopped")
}
