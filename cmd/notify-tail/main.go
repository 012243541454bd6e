// Command notify-tail is an interactive console for the realtime
// notification channel.
//
// It connects to a push endpoint, subscribes to notification categories
// and prints pushed notifications as they arrive. Remote invokes can be
// issued from the prompt.
//
// Usage:
//
//	notify-tail [flags]
//
// Flags:
//
//	-config string    Configuration file path (YAML)
//	-endpoint string  Push endpoint URL (ws:// or wss://), overrides config
//	-token string     Bearer token (default: $TICKETFLOW_TOKEN)
//	-log string       Channel event log path (CBOR)
//
// Examples:
//
//	# Connect with an explicit endpoint and token
//	notify-tail -endpoint ws://localhost:8080/push -token secret
//
//	# Use a config file and record the channel event log
//	notify-tail -config notify.yaml -log channel.nlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ticketflow/notify-go/pkg/client"
	"github.com/ticketflow/notify-go/pkg/config"
	"github.com/ticketflow/notify-go/pkg/connection"
	"github.com/ticketflow/notify-go/pkg/log"
)

func main() {
	var (
		configPath = flag.String("config", "", "Configuration file path (YAML)")
		endpoint   = flag.String("endpoint", "", "Push endpoint URL (ws:// or wss://)")
		token      = flag.String("token", "", "Bearer token (default: $TICKETFLOW_TOKEN)")
		logPath    = flag.String("log", "", "Channel event log path (CBOR)")
	)
	flag.Parse()

	if err := run(*configPath, *endpoint, *token, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "notify-tail: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, endpoint, token, logPath string) error {
	policy := connection.Policy{}

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if endpoint == "" {
			endpoint = cfg.Endpoint
		}
		if token == "" {
			token = cfg.Token()
		}
		if logPath == "" {
			logPath = cfg.Log.File
		}
		policy = cfg.Policy()
	}

	if endpoint == "" {
		return fmt.Errorf("no endpoint: use -endpoint or -config")
	}
	if token == "" {
		token = os.Getenv("TICKETFLOW_TOKEN")
	}

	console, err := newConsole(endpoint, token)
	if err != nil {
		return err
	}
	defer console.Close()

	var loggers []log.Logger
	loggers = append(loggers, console.eventLogger())
	if logPath != "" {
		fileLogger, err := log.NewFileLogger(logPath)
		if err != nil {
			return fmt.Errorf("opening event log: %w", err)
		}
		defer fileLogger.Close()
		loggers = append(loggers, fileLogger)
	}

	c, err := client.New(client.Config{
		Endpoint: endpoint,
		Backoff:  policy,
		Logger:   log.NewMultiLogger(loggers...),
	})
	if err != nil {
		return err
	}
	defer c.Close()

	console.attach(c)
	return console.Run()
}
