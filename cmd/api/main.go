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

	"github.com/ariefcatur/go-hotel-reservations/internal/billing"
	"github.com/ariefcatur/go-hotel-reservations/internal/booking"
	"github.com/ariefcatur/go-hotel-reservations/internal/config"
	"github.com/ariefcatur/go-hotel-reservations/internal/httpx"
	kafkax "github.com/ariefcatur/go-hotel-reservations/internal/kafka"
	"github.com/ariefcatur/go-hotel-reservations/internal/obs"
	"github.com/ariefcatur/go-hotel-reservations/internal/postgres"
	"github.com/ariefcatur/go-hotel-reservations/internal/redisx"
	"github.com/ariefcatur/go-hotel-reservations/internal/rooms"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := obs.NewLogger(cfg.Env).With("service", cfg.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stores
	var (
		bookings booking.Store
		invoices billing.Store
		ready    func(context.Context) error
	)
	switch cfg.BookingStore {
	case "memory":
		bookings, invoices = booking.NewMemoryStore(), billing.NewMemoryStore()
		log.Warn("using in-memory stores, data is lost on restart")
	default:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("db connect", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db, postgres.SchemaBookings); err != nil {
			log.Error("db migrate", "err", err)
			os.Exit(1)
		}
		bookings, invoices = &booking.PGStore{DB: db}, &billing.PGStore{DB: db}
		ready = db.Ping
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024, log)
	prod.Start(ctx)
	events := &booking.KafkaPublisher{Producer: prod, ServiceName: cfg.ServiceName}

	svc := &booking.Service{
		Store:  bookings,
		Prices: rooms.NewClient(cfg.RoomServiceURL, cfg.RoomLookupTimeout, log),
		Events: events,
		Log:    log,
	}
	issuer := &billing.Issuer{Bookings: svc, Store: invoices, Events: events, Log: log}

	router := httpx.NewRouter(log, ready)
	(&httpx.BookingsHandler{Service: svc, Idempotency: &redisx.CreateIdempotency{Redis: rdb}, Log: log}).Register(router)
	(&httpx.InvoicesHandler{Issuer: issuer, Log: log}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr, "rooms_url", cfg.RoomServiceURL, "store", cfg.BookingStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	// longer than any handler timeout, so no request is still publishing after Close
	ctx2, cancel2 := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Warn("http shutdown", "err", err)
	}
	prod.Close() // no more publishes after the server has drained
	prod.WaitClosed()
}
