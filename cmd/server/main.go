package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/tweetsense/config"
	"github.com/spacesedan/tweetsense/internal/api"
	"github.com/spacesedan/tweetsense/internal/clients"
	"github.com/spacesedan/tweetsense/internal/db"
	"github.com/spacesedan/tweetsense/internal/logging"
	"github.com/spacesedan/tweetsense/internal/pipeline"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	settings, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	if settings == nil {
		return
	}

	logging.InitLogger(settings.Debug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	awsCfg, err := clients.NewAWSConfig(ctx, settings.AWSRegion)
	if err != nil {
		slog.Error("Failed to initialize AWS config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := db.NewTweetStore(clients.NewDynamoDBClient(awsCfg, settings.AWSEndpoint), settings.TweetsTable)
	secrets := clients.NewSecretsClient(clients.NewSecretsManagerClient(awsCfg))

	var budget pipeline.RequestBudget
	if settings.ValkeyAddress != "" {
		searchBudget, err := clients.NewSearchBudget(
			settings.ValkeyAddress,
			settings.ValkeyPassword,
			settings.ValkeyTLS,
			settings.SearchRateLimit,
			time.Duration(settings.SearchRateWindow)*time.Second,
		)
		if err != nil {
			slog.Error("Failed to connect to valkey", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer searchBudget.Close()
		budget = searchBudget
	} else {
		slog.Warn("No valkey address configured, running without a shared search budget")
	}

	newPipeline := func(ctx context.Context, twitterToken, huggingFaceToken string) api.PipelineRunner {
		searcher := clients.NewTwitterClient(ctx, twitterToken, settings.TwitterBaseURL)
		analyzer := clients.NewHuggingFaceClient(huggingFaceToken, settings.SentimentModelURL)
		return pipeline.New(searcher, analyzer, store, budget, pipeline.Options{
			PageSize:       settings.PageSize,
			MaxTotalTweets: settings.MaxTotalTweets,
		})
	}

	handler := api.NewHandler(secrets, settings.SecretName, newPipeline)
	router := api.NewServer(handler)

	srv := &http.Server{
		Addr:    ":" + settings.Port,
		Handler: router,
	}

	go func() {
		slog.Info("[Server] Listening", slog.String("port", settings.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Server] Failed to serve", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Handle graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	slog.Info("Shutting down server gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Server] Shutdown failed", slog.String("error", err.Error()))
	}
}
