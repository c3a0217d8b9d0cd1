package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	kafkalib "github.com/s21platform/kafka-lib"
	logger_lib "github.com/s21platform/logger-lib"
	"github.com/s21platform/metrics-lib/pkg"

	"github.com/s21platform/roundtable-service/internal/broadcast"
	"github.com/s21platform/roundtable-service/internal/client/centrifugo"
	"github.com/s21platform/roundtable-service/internal/config"
	"github.com/s21platform/roundtable-service/internal/databus/changelog"
	"github.com/s21platform/roundtable-service/internal/infra"
	"github.com/s21platform/roundtable-service/internal/metrics"
	"github.com/s21platform/roundtable-service/internal/phase"
	"github.com/s21platform/roundtable-service/internal/pkg/jwt"
	"github.com/s21platform/roundtable-service/internal/pkg/validator"
	db "github.com/s21platform/roundtable-service/internal/repository/postgres"
	"github.com/s21platform/roundtable-service/internal/rest"
	"github.com/s21platform/roundtable-service/internal/round"
	"github.com/s21platform/roundtable-service/internal/service"
)

func main() {
	cfg := config.MustLoad()
	logger := logger_lib.New(cfg.Logger.Host, cfg.Logger.Port, cfg.Service.Name, cfg.Platform.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbRepo := db.New(cfg)
	defer dbRepo.Close()

	centrifugeClient := centrifugo.New(cfg.Centrifuge)
	defer centrifugeClient.Close()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector())
	collector := metrics.New(promRegistry)

	threads := service.New(logger,
		round.WithMetrics(collector),
		round.WithThresholds(phase.Thresholds{
			PreSearch:   cfg.Round.PreSearchTimeout,
			Analysis:    cfg.Round.AnalysisTimeout,
			StreamStart: cfg.Round.StreamStartTimeout,
		}),
	)

	broadcaster := broadcast.New(centrifugeClient, logger, cfg.Round.BroadcastBuffer)
	threads.OnCreate(func(threadID string, store *round.Store) {
		broadcaster.Attach(threadID, store)
	})

	platformMetrics, err := pkg.NewMetrics(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Service.Name, cfg.Platform.Env)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to connect graphite: %v", err))
	}

	consumerConfig := kafkalib.DefaultConsumerConfig(
		cfg.Kafka.Host,
		cfg.Kafka.Port,
		cfg.Kafka.ChangelogTopic,
		cfg.Kafka.GroupID,
	)
	consumer, err := kafkalib.NewConsumer(consumerConfig, platformMetrics)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create consumer: %v", err))
	}
	changelogHandler := changelog.New(threads)

	vldtr := validator.New()
	jwtGenerator := jwt.New(cfg.Centrifuge.JWTSecret)

	handler := rest.New(threads, dbRepo, vldtr, jwtGenerator)
	router := chi.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return infra.AuthInterceptorHTTP(next)
	})
	router.Use(func(next http.Handler) http.Handler {
		return infra.LoggerHTTP(next, logger)
	})

	router.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	handler.Routes(router)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Service.Port),
		Handler: router,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		return httpServer.Shutdown(context.Background())
	})

	g.Go(func() error {
		return broadcaster.Run(gCtx)
	})

	g.Go(func() error {
		return threads.RunWatchdog(gCtx, cfg.Round.WatchdogInterval)
	})

	g.Go(func() error {
		if consumer == nil {
			return nil
		}
		consumerCtx := context.WithValue(gCtx, config.KeyMetrics, platformMetrics)
		consumerCtx = context.WithValue(consumerCtx, config.KeyLogger, logger)
		consumer.RegisterHandler(consumerCtx, changelogHandler.Handler)
		<-gCtx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("server error: %v", err))
	}
}
