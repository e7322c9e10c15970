// Package main starts the interactive TRACE client: it parses configuration,
// initializes logging, wires the API client, session store, and auth flows,
// and hands control to the shell.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/traceai/trace-client/internal/authflow"
	"github.com/traceai/trace-client/internal/client/api"
	"github.com/traceai/trace-client/internal/client/session"
	"github.com/traceai/trace-client/internal/client/shell"
	"github.com/traceai/trace-client/internal/config"
	"github.com/traceai/trace-client/internal/logger"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options := config.Parse()

	fmt.Printf("TRACE client %s (built %s)\n", cmp.Or(version, "dev"), cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	apiClient := api.New(options.ServerURL, options.RequestTimeout, zapLogger)
	sessions := session.NewStore(options.SessionFile, zapLogger)
	accounts := authflow.NewAccountService(apiClient, sessions, zapLogger)

	zapLogger.Info("client starting", zap.String("server", options.ServerURL))

	sh := shell.New(os.Stdin, os.Stdout, apiClient, accounts, sessions, zapLogger)
	sh.Run(context.Background())
}
