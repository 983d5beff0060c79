package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "offer-automation/docs" // Swagger docs
	"offer-automation/internal/api"
	"offer-automation/internal/config"
	"offer-automation/internal/document"
	"offer-automation/internal/llm"
	"offer-automation/internal/offer"
	"offer-automation/internal/signature"
	"offer-automation/internal/templates"
)

// @title Offer Letter Automation API
// @version 1.0
// @description Extracts candidate details from free text with an LLM, routes them to a branded template and renders offer letters.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /api

func main() {
	cfg := config.LoadConfig()
	setupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	catalog := templates.DefaultCatalog()
	if cfg.TemplateCatalog != "" {
		var err error
		catalog, err = templates.LoadCatalog(cfg.TemplateCatalog)
		if err != nil {
			log.Fatal().Err(err).Msg("template catalog")
		}
		log.Info().Str("path", cfg.TemplateCatalog).Msg("template catalog loaded")
	}

	metrics := api.NewMetrics()

	llmSvc, err := llm.NewService(llm.Options{
		APIKey:   cfg.LLMAPIKey,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
		SiteURL:  cfg.SiteURL,
		SiteName: cfg.SiteName,
		Timeout:  cfg.LLMTimeout,
		Observer: metrics.ObserveLLM,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("LLM service")
	}

	selector := templates.NewSelector(cfg.TemplatesDir, cfg.DefaultTemplateFile)
	if _, err := os.Stat(selector.DefaultPath()); err != nil {
		log.Warn().Str("path", selector.DefaultPath()).Msg("default offer template missing, unbranded offers will fail")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	resolver := offer.NewResolver(llmSvc, catalog)
	if cfg.ExtractionCacheTTL > 0 {
		cache := offer.NewCache(cfg.ExtractionCacheTTL)
		resolver.WithCache(cache)
		go cache.Janitor(ctx, cfg.ExtractionCacheTTL)
	}

	apiSrv := api.NewAPI(api.Deps{
		Resolver:   resolver,
		Generator:  document.NewGenerator(catalog, selector, cfg.DefaultCompany),
		Selector:   selector,
		Signatures: signature.NewStore(cfg.OutputDir),
		Metrics:    metrics,
		ParseRate:  cfg.ParseRatePerMinute,
	})
	router := api.NewRouter(apiSrv)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second, // brief uploads
		WriteTimeout: cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if cfg.LLMTimeout == 0 {
		srv.WriteTimeout = 0
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		stop()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("model", cfg.LLMModel).
		Str("templates", cfg.TemplatesDir).
		Msg("API server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("listen")
	}

	<-idleConnsClosed
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
