package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/spellfight/internal/api"
	"github.com/mcoot/spellfight/internal/config"
	"github.com/mcoot/spellfight/internal/factory"
	redisstorage "github.com/mcoot/spellfight/internal/storage/redis"
	sqlitestorage "github.com/mcoot/spellfight/internal/storage/sqlite"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Build factory config from environment
	factoryCfg := factory.Config{
		Logger:         logger,
		StorageType:    cfg.StorageType,
		GameConfig:     cfg.Game,
		DictionaryPath: cfg.DictionaryPath,
	}
	factoryCfg.DictionaryConfig.BaseURL = cfg.DictionaryURL
	factoryCfg.FacebookConfig.ClientID = cfg.FacebookClientID
	factoryCfg.FacebookConfig.ClientSecret = cfg.FacebookClientSecret
	factoryCfg.FacebookConfig.RedirectURI = cfg.FacebookRedirectURI

	switch cfg.StorageType {
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	case config.StorageSQLite:
		sqliteCfg := sqlitestorage.DefaultConfig()
		if cfg.SQLitePath != "" {
			sqliteCfg.Path = cfg.SQLitePath
		}
		factoryCfg.SQLiteConfig = &sqliteCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.Any("error", err))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Auth:     app.AuthService,
		Resolver: app.Resolver,
		Users:    app.Users,
		Facebook: app.Facebook,
		Rooms:    app.Manager,
		Words:    app.Words,
		Socket:   app.Socket,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		app.Run(ctx)
	}()

	logger.Info("server starting",
		slog.String("addr", serverConfig.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.Int("max_players", cfg.Game.MaxPlayers),
	)

	// Serve returns once the signal arrives and open requests have drained
	err = server.ListenAndServe(ctx)
	stop()
	<-engineDone

	if err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
