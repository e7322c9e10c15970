// Package config provides functionality for managing configuration options
// for the TRACE client using command-line flags, environment variables, an
// optional .env file, and an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the client.
type Options struct {
	// ServerURL is the base URL of the remote TRACE auth API.
	ServerURL string

	// SessionFile is the path of the persisted identity blob.
	SessionFile string

	// LogLevel sets the zap log level (debug, info, warn, error).
	LogLevel string

	// RequestTimeout bounds each auth API call.
	RequestTimeout time.Duration

	// Config is the path to the JSON config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.ServerURL, "url", "http://127.0.0.1:5000", "base URL of the TRACE auth API")
	flag.StringVar(&options.SessionFile, "session", "session.json", "path to the persisted session file")
	flag.StringVar(&options.LogLevel, "log", "info", "log level")
	flag.DurationVar(&options.RequestTimeout, "timeout", 15*time.Second, "per-request timeout")
	flag.StringVar(&options.Config, "config", "", "path to config file")
	flag.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// A missing .env is fine; values from an existing one become plain env vars.
	_ = godotenv.Load()

	if configPath := os.Getenv("TRACE_CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverURL := os.Getenv("TRACE_SERVER_URL"); serverURL != "" {
		options.ServerURL = serverURL
	}
	if sessionFile := os.Getenv("TRACE_SESSION_FILE"); sessionFile != "" {
		options.SessionFile = sessionFile
	}
	if logLevel := os.Getenv("TRACE_LOG_LEVEL"); logLevel != "" {
		options.LogLevel = logLevel
	}

	return options
}
