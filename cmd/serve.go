package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/heona1231/2025HciProject/config"
	"github.com/heona1231/2025HciProject/internal/analyzer"
	"github.com/heona1231/2025HciProject/internal/api"
	"github.com/heona1231/2025HciProject/internal/fetcher"
	"github.com/heona1231/2025HciProject/internal/inference"
	"github.com/heona1231/2025HciProject/internal/ocr"
)

// serveCmd is the cobra command that starts the eventlens API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the eventlens api server",
	Run: func(cmd *cobra.Command, _ []string) {
		err := serve(cmd.Context())
		cobra.CheckErr(err)
	},
}

// init registers the serve command and its flags on the root command
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.PersistentFlags().String("config", "./config/.config.yaml", "config file location")
}

// serve initializes dependencies and starts the eventlens API server
func serve(ctx context.Context) error {
	cfgPath := k.String("config")

	cfg, err := config.Load(&cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg.Server.Debug = k.Bool("debug")
	cfg.Server.Pretty = k.Bool("pretty")

	inferenceClient, err := setupInference(cfg)
	if err != nil {
		return fmt.Errorf("setting up inference: %w", err)
	}

	pipeline := analyzer.New(setupFetcher(cfg), inferenceClient, analyzerOptions(cfg)...)

	handler := api.NewRouter(api.RouterConfig{
		Analyzer:       pipeline,
		MaxBodySize:    cfg.Server.MaxBodySize,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGracePeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("listen", cfg.Server.Listen).Msg("starting eventlens service")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

// setupInference initializes the generative inference client from config
func setupInference(cfg *config.Config) (*inference.Client, error) {
	return inference.New(
		cfg.Inference.APIKey,
		inference.WithBaseURL(cfg.Inference.BaseURL),
		inference.WithModel(cfg.Inference.Model),
		inference.WithMaxAttempts(cfg.Inference.MaxAttempts),
		inference.WithBackoffBase(cfg.Inference.BackoffBase),
		inference.WithCallTimeout(cfg.Inference.CallTimeout),
		inference.WithOverallTimeout(cfg.Inference.OverallTimeout),
	)
}

// setupFetcher initializes the headless browser page fetcher from config
func setupFetcher(cfg *config.Config) *fetcher.Fetcher {
	opts := []fetcher.Option{
		fetcher.WithLoadTimeout(cfg.Fetcher.LoadTimeout),
		fetcher.WithSettleWait(cfg.Fetcher.SettleWait),
	}

	if cfg.Fetcher.UserAgent != "" {
		opts = append(opts, fetcher.WithUserAgent(cfg.Fetcher.UserAgent))
	}

	return fetcher.New(opts...)
}

// analyzerOptions wires the optional OCR sidecar when configured
func analyzerOptions(cfg *config.Config) []analyzer.Option {
	if cfg.OCR.URL == "" {
		log.Info().Msg("ocr service not configured, image analysis relies on model vision")
		return nil
	}

	client, err := ocr.New(
		cfg.OCR.URL,
		ocr.WithLanguages(cfg.OCR.Languages),
		ocr.WithHTTPClient(&http.Client{Timeout: cfg.OCR.RequestTimeout}),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize ocr client, continuing without it")
		return nil
	}

	log.Info().Str("url", cfg.OCR.URL).Msg("ocr service configured")

	return []analyzer.Option{analyzer.WithTextExtractor(client)}
}
