package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"humanaid/internal/db"
	"humanaid/internal/editor"
	"humanaid/internal/metrics"
	"humanaid/internal/moderation"
	"humanaid/internal/normalize"
	"humanaid/internal/search"
	"humanaid/internal/server"
	"humanaid/internal/store"
	"humanaid/internal/suggest"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP API",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, logger, err := setup()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	resourceRepo := store.NewResourceRepository(pool)
	categoryRepo := store.NewCategoryRepository(pool)
	submissionRepo := store.NewSubmissionRepository(pool)
	favoriteRepo := store.NewFavoriteRepository(pool)
	userRepo := store.NewUserRepository(pool)

	rules := normalize.DefaultRules().WithOverrides(config.CategoryPriority, config.FoodOnsiteKeywords)
	normalizer := normalize.New(logger, rules)

	moderationService := moderation.New(
		logger,
		submissionRepo,
		moderation.FromTransactor(store.NewTransactor(pool)),
		normalizer,
		m,
		defaultPoint(config),
	)

	deps := server.Deps{
		Resources:  resourceRepo,
		Categories: categoryRepo,
		Search:     search.New(logger, store.NewSearchRepository(pool), m),
		Moderation: moderationService,
		Editor:     editor.New(logger, resourceRepo),
		Favorites:  favoriteRepo,
		Users:      userRepo,
		Suggester:  suggest.New(logger, config.SuggesterURL, time.Duration(config.SuggesterTimeoutSec)*time.Second, suggest.DefaultKeywordMap()),
		DB:         pool,
		Metrics:    m,
	}

	if config.AuthIssuerURL != "" {
		jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
		if err != nil {
			return fmt.Errorf("failed to initialize jwk cache: %w", err)
		}

		issuer := strings.TrimSuffix(config.AuthIssuerURL, "/")
		jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", issuer)

		err = jwkCache.Register(context.Background(), jwksURL)
		if err != nil {
			return fmt.Errorf("failed to register jwks url with cache: %w", err)
		}

		deps.Verifier = server.NewJWKSVerifier(jwkCache, jwksURL, issuer)
	} else {
		logger.Warn("AUTH_ISSUER_URL is not set, authenticated routes will reject every request")
	}

	srv := server.New(config, logger, deps)

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
