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

	"github.com/rs/zerolog"

	"github.com/d4mura/with4gent/pkg/aiclient"
	"github.com/d4mura/with4gent/pkg/chatbot"
	"github.com/d4mura/with4gent/pkg/config"
	"github.com/d4mura/with4gent/pkg/httpapi"
	"github.com/d4mura/with4gent/pkg/lineapi"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	line, err := lineapi.NewClient(cfg.Line.ChannelAccessToken, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create LINE client")
	}
	ai := aiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, log)
	bot := chatbot.NewBot(line, ai, log)
	api := httpapi.NewServer(bot, cfg.Line.ChannelSecret, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("model", cfg.OpenAI.Model).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
