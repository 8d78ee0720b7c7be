package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/chi-demo/middleware"
	"github.com/tendant/share-resolver/pkg/shareresolver/api"
	"github.com/tendant/share-resolver/pkg/shareresolver/config"
)

// maxEventBody bounds inbound JSON request bodies
const maxEventBody = 64 << 10

func main() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n\nEnvironment variables:\n", os.Args[0])
		_ = config.Usage(out)
	}
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)
	slog.SetDefault(logger)

	var guards []func(http.Handler) http.Handler
	if cfg.APIKeySHA256 != "" {
		apiKeyMiddleware, err := middleware.ApiKeyMiddleware(middleware.ApiKeyConfig{
			APIKeys: map[string]string{
				"key1": cfg.APIKeySHA256,
			},
		})
		if err != nil {
			slog.Error("Failed initialize API Key middleware", "err", err)
			os.Exit(1)
		}
		guards = append(guards, apiKeyMiddleware)
	} else {
		slog.Warn("API_KEY_SHA256 not set, API is unauthenticated")
	}

	resolver, err := cfg.BuildResolver(context.Background(), logger)
	if err != nil {
		slog.Error("Failed to build resolver", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := resolver.Close(); err != nil {
			slog.Error("Failed to close resolver", "err", err)
		}
	}()

	provider, _ := cfg.Provider()
	dbType, _ := cfg.DatabaseType()
	slog.Info("Share resolver configured",
		"environment", cfg.Environment,
		"channel", resolver.Channel().Name(),
		"cache_dir", resolver.CacheDir(),
		"provider", provider.Type,
		"pending_store", dbType,
	)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	channelHandler := api.NewChannelHandler(resolver, nil)

	// chi-demo's app already logs every request
	server.R.Route("/api/v1", func(r chi.Router) {
		channelHandler.Mount(r, maxEventBody, guards...)
	})

	server.Run()
}

func newLogger(environment string) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
