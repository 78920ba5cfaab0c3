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

	"github.com/ariefcatur/go-hotel-reservations/internal/booking"
	"github.com/ariefcatur/go-hotel-reservations/internal/config"
	"github.com/ariefcatur/go-hotel-reservations/internal/httpx"
	kafkax "github.com/ariefcatur/go-hotel-reservations/internal/kafka"
	"github.com/ariefcatur/go-hotel-reservations/internal/notify"
	"github.com/ariefcatur/go-hotel-reservations/internal/obs"
	"github.com/ariefcatur/go-hotel-reservations/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := obs.NewLogger(cfg.Env).With("service", cfg.ServiceName+"-notifier")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	feed := &notify.RedisFeed{Redis: rdb, Size: cfg.FeedSize, ServiceName: cfg.ServiceName + "-notifier"}
	svc := &notify.Service{Feed: feed, Log: log}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, booking.AllTopics, cfg.NotifierWorkers, log)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("consumer started", "group", cfg.NotifierGroup, "topics", booking.AllTopics, "workers", cfg.NotifierWorkers)
		if err := cons.Start(ctx, svc.HandleEvent); err != nil {
			log.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	router := httpx.NewRouter(log, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	(&notify.Handler{Feed: feed}).Register(router)
	srv := &http.Server{Addr: cfg.NotifierHTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("http listening", "addr", cfg.NotifierHTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	cancel()
	<-done
}
