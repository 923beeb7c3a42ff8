package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/handler"
	"github.com/RoyceAzure/lab/storefront/internal/api/router"
	"github.com/RoyceAzure/lab/storefront/internal/appcontext"
	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cf := config.GetConfig()
	logger := setUpLogger(cf)

	// 金額以 JSON number 輸出
	decimal.MarshalJSONWithoutQuotes = true

	app, err := appcontext.NewApplicationContext(cf)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init application")
	}

	// 初始化 handler
	server := api.NewServer(
		handler.NewCatalogHandler(app.CatalogService),
		handler.NewAuthHandler(app.UserService),
		handler.NewOrderHandler(app.OrderService),
		handler.NewAddressHandler(app.AddressService),
		handler.NewCartHandler(app.CartService),
	)

	// 設置路由
	r := router.SetupRouter(server, app.TokenMaker, app.Limiter, &logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cf.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 設置訊號監聽
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if app.OrderConsumer != nil {
		g.Go(func() error {
			log.Info().Msg("order notification consumer starting")
			return app.OrderConsumer.Start(gCtx)
		})
	}

	// 監聽退出訊號
	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("application shutdown error")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("closed completed")
}

func setUpLogger(cf *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cf.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if constants.ENV(cf.Env) == constants.Dev {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return log.Logger.With().Str("service", "storefront").Logger()
}
