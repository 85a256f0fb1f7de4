package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/listling/internal/api"
	"github.com/mmynk/listling/internal/auth"
	"github.com/mmynk/listling/internal/config"
	"github.com/mmynk/listling/internal/service"
	"github.com/mmynk/listling/internal/storage/sqlite"
	"github.com/mmynk/listling/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store, cfg.Auth.BcryptCost)

	handler := api.New(
		service.NewAuthService(authenticator, tokens),
		service.NewUserService(store),
		service.NewListService(store),
		service.NewMemberService(store),
	).Router(tokens)

	// h2c enables HTTP/2 without TLS for clients that speak it; plain
	// HTTP/1.1 still works.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
