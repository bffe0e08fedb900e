package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mehmetcc/moviedesk/internal/auth"
	"github.com/mehmetcc/moviedesk/internal/catalog"
	"github.com/mehmetcc/moviedesk/internal/config"
	"github.com/mehmetcc/moviedesk/internal/console"
	"github.com/mehmetcc/moviedesk/internal/httpx"
	"github.com/mehmetcc/moviedesk/internal/session"
	"github.com/mehmetcc/moviedesk/internal/token"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// init logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	// load config
	cfg, err := config.LoadConfig(logger, ".env")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	logger = withLevel(logger, cfg.LogConfig.Level)

	// credential store
	path := cfg.StoreConfig.TokenFile
	if path == "" {
		path, err = token.DefaultPath()
		if err != nil {
			logger.Fatal("failed to resolve token file", zap.Error(err))
		}
	}
	store := token.NewFileStore(path, logger)

	// the session is the client's token source, so it is built after the client
	var sess *session.Controller
	client := httpx.NewClient(cfg.APIConfig, httpx.TokenFunc(func() string {
		return sess.Token()
	}), logger)

	sess, err = session.NewController(store, auth.NewAuthenticationService(client, logger), logger)
	if err != nil {
		logger.Fatal("failed to restore session", zap.Error(err))
	}

	shell := console.New(console.Deps{
		Session:   sess,
		Movies:    catalog.NewMovieService(client, logger),
		Directors: catalog.NewDirectorService(client, logger),
		Genres:    catalog.NewGenreService(client, logger),
		Ratings:   catalog.NewRatingService(client, logger),
	}, os.Stdout, os.Stderr, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := shell.Run(ctx, os.Args[1:])
	stop()
	_ = logger.Sync()
	os.Exit(code)
}

func withLevel(logger *zap.Logger, level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown LOG_LEVEL, keeping info", zap.String("level", level))
		return logger
	}
	if lvl == zapcore.DebugLevel {
		dev, err := zap.NewDevelopment()
		if err == nil {
			return dev
		}
	}
	return logger.WithOptions(zap.IncreaseLevel(lvl))
}
