// Package main - Entry point for the retreat quote server
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"retreat-quote/adapters/document"
	"retreat-quote/adapters/email"
	"retreat-quote/api"
	"retreat-quote/core/notify"
	"retreat-quote/core/output"
	"retreat-quote/core/ratetable"
	"retreat-quote/internal/config"
	"retreat-quote/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "Config file (JSON)")
	envPath := flag.String("env", ".env", "Dotenv file, ignored in production")
	uiPath := flag.String("ui", "./web", "Path to the wizard's static files")
	flag.Parse()

	// ── 1. Configuration and logging ─────────────────────────────────────
	if err := config.LoadDotEnv(*envPath); err != nil {
		logging.Warn("failed to load dotenv", zap.String("path", *envPath), zap.Error(err))
	}
	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logging.Fatal("failed to load config", zap.String("path", *cfgPath), zap.Error(err))
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Fatal("failed to initialize logging", zap.Error(err))
	}
	defer logging.Sync()

	// ── 2. Rate table ────────────────────────────────────────────────────
	rates := ratetable.Default()
	if cfg.Rates.File != "" {
		loaded, err := ratetable.Load(cfg.Rates.File)
		if err != nil {
			logging.Fatal("failed to load rate table", zap.String("path", cfg.Rates.File), zap.Error(err))
		}
		rates = loaded
	}
	logging.Info("rate table ready",
		zap.String("version", rates.Version),
		zap.String("fingerprint", rates.Fingerprint()))

	// ── 3. Outbound adapters ─────────────────────────────────────────────
	var sender email.Sender
	if cfg.Email.Enabled() {
		sender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From)
	} else if !cfg.IsProduction() {
		logging.Warn("RESEND_API_KEY not set, emails are logged instead of sent")
		sender = email.NewLogSender()
	} else {
		logging.Warn("email configuration missing, step and final emails are disabled")
	}

	logo, err := document.LoadLogo(cfg.Document.LogoPath)
	if err != nil {
		logging.Warn("logo not loaded", zap.String("path", cfg.Document.LogoPath), zap.Error(err))
	}
	notifier := notify.New(notify.Options{
		Sender:   sender,
		Renderer: document.NewChromeRenderer(cfg.Document.ChromePath, cfg.Document.Timeout()),
		Document: &output.HTMLFormatter{Branding: output.Branding{
			VenueName:   cfg.Document.VenueName,
			VenueURL:    cfg.Document.VenueURL,
			LogoDataURI: logo,
		}},
		From:    cfg.Email.From,
		Manager: cfg.Email.Manager,
		SiteURL: cfg.Email.SiteURL,
		ReplyTo: cfg.Email.ReplyTo,
		Timeout: cfg.Email.Timeout() + cfg.Document.Timeout(),
	})

	// ── 4. Router ────────────────────────────────────────────────────────
	apiServer := api.NewServer(api.Options{
		Version:        version,
		Rates:          rates,
		Notifier:       notifier,
		CSRFKey:        []byte(cfg.Server.CSRFKey),
		SecureCookies:  cfg.IsProduction(),
		TrustedOrigins: cfg.Server.TrustedOrigins,
	})

	r := chi.NewRouter()
	r.Mount("/api", apiServer)
	r.Handle("/*", http.FileServer(http.Dir(*uiPath)))

	// ── 5. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Info("server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version),
			zap.Bool("email", notifier.EmailEnabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	logging.Info("server stopped")
}
