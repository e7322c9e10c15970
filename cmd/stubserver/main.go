// Package main runs the in-memory auth API fixture on a local port so the
// client can be exercised without the real TRACE backend. Dispatched codes
// are logged instead of emailed. Not a production server.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/traceai/trace-client/internal/authtest"
	"github.com/traceai/trace-client/internal/logger"
	"github.com/traceai/trace-client/internal/models"
)

func main() {
	var addr string
	flag.StringVar(&addr, "a", "127.0.0.1:5000", "listen address")
	flag.Parse()

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("info"); err != nil {
		os.Exit(1)
	}
	zapLogger := log.Log

	srv := authtest.NewServer(zapLogger)
	// A ready-made admin account, matching the out-of-band elevation the
	// real backend uses.
	if err := srv.Seed("Site Admin", "admin@trace.example", "Admin123!", models.RoleAdmin); err != nil {
		zapLogger.Fatal("failed to seed admin account", zap.Error(err))
	}

	// Surface dispatched codes on a timer so manual flows can be completed.
	go func() {
		last := ""
		for {
			time.Sleep(time.Second)
			if otp := srv.LastOTP(); otp != "" && otp != last {
				last = otp
				zapLogger.Info("dispatched verification code", zap.String("otp", otp))
			}
		}
	}()

	zapLogger.Info("starting stub auth server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		zapLogger.Fatal("stub server failed", zap.Error(err))
	}
}
