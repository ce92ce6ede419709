package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Joseamica/backend/internal/config"
	"github.com/Joseamica/backend/internal/database"
	"github.com/Joseamica/backend/internal/handler"
	"github.com/Joseamica/backend/internal/possync"
	"github.com/Joseamica/backend/internal/queue"
	"github.com/Joseamica/backend/internal/repository"
	"github.com/Joseamica/backend/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Env == "dev" {
		log.SetLevel(logrus.DebugLevel)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("could not connect to database")
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; rate limiting degrades open

	// Repositories for the REST surface.
	venueRepo := repository.NewVenueRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	shiftRepo := repository.NewShiftRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	staffRepo := repository.NewStaffRepo(db)

	// Sync engine: reconciler, heartbeat monitor and command outbox.
	reconciler := possync.NewReconciler(repository.NewSyncStore(db), log)
	monitor := possync.NewMonitor(repository.NewPosStatusRepo(db), log)
	outbox := possync.NewOutbox(repository.NewPosCommandRepo(db), cfg.OutboxMaxAttempts)
	dispatcher := possync.NewDispatcher(outbox, queue.NewCommandPublisher(cfg.AMQPURL, log),
		time.Duration(cfg.OutboxIntervalSec)*time.Second, 25, log)
	consumer := queue.NewSyncConsumer(cfg.AMQPURL, reconciler, monitor, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	syncHandler := handler.NewSyncHandler(reconciler, monitor, outbox)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(staffRepo, cfg.JWTSecret, cfg.AccessTTLMin), cfg.JWTSecret)
	router.RegisterSync(e, syncHandler, config.LoadRateLimit(), rdb)
	router.RegisterManagement(e, router.ManagementHandlers{
		Venues:   handler.NewVenueHandler(venueRepo),
		Orders:   handler.NewOrderHandler(orderRepo, paymentRepo),
		Shifts:   handler.NewShiftHandler(shiftRepo),
		Payments: handler.NewPaymentHandler(paymentRepo, orderRepo),
		Reviews:  handler.NewReviewHandler(reviewRepo, orderRepo),
		Staff:    handler.NewStaffHandler(staffRepo, venueRepo),
		Sync:     syncHandler,
	}, cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := ":" + cfg.Port
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	// Broker intake for order events and heartbeats.
	g.Go(func() error { return consumer.Run(ctx) })

	// Outbound command delivery.
	g.Go(func() error { return dispatcher.Run(ctx) })

	// Staleness sweeper: marks ONLINE venues OFFLINE when their bridge
	// stops sending heartbeats.
	g.Go(func() error {
		threshold := time.Duration(cfg.HeartbeatThresholdSec) * time.Second
		ticker := time.NewTicker(time.Duration(cfg.StalenessSweepSec) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				n, err := monitor.SweepStale(ctx, threshold)
				if err != nil {
					log.WithError(err).Warn("staleness sweep failed")
					continue
				}
				if n > 0 {
					log.WithField("transitioned", n).Info("venues marked offline")
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("server exited")
	}
	log.Info("shutdown complete")
}
