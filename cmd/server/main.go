package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"splitledger/internal/api"
	"splitledger/internal/auth"
	"splitledger/internal/cache"
	"splitledger/internal/config"
	"splitledger/internal/events"
	"splitledger/internal/service"
	"splitledger/internal/storage/sqlite"
	"splitledger/pkg/logging"
)

func main() {
	// .env is optional; the environment wins either way.
	_ = godotenv.Load()

	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			slog.Error("Failed to connect to message broker", "error", err)
			os.Exit(1)
		}
		publisher = amqpPublisher
		slog.Info("Event publishing enabled", "exchange", cfg.AMQPExchange)
	}
	defer publisher.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	balances := cache.NewBalances(cfg.BalanceCacheSize, cfg.BalanceCacheTTL)

	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager)
	groupSvc := service.NewGroupService(store, balances)
	ledgerSvc := service.NewLedgerService(store, balances, publisher)

	server := api.NewServer(authSvc, groupSvc, ledgerSvc, store, jwtManager)

	mux := http.NewServeMux()
	mux.Handle("/api/", server.Handler())
	mux.Handle("/metrics", promhttp.Handler())

	// h2c allows HTTP/2 without TLS for clients behind a terminating
	// proxy.
	handler := h2c.NewHandler(mux, &http2.Server{})

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
