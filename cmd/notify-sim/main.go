// Command notify-sim runs a synthetic push endpoint for development.
//
// It accepts websocket sessions, emits notifications cycling through the
// known categories at a fixed interval, and answers invokes by echoing
// the method and arguments.
//
// Usage:
//
//	notify-sim [flags]
//
// Flags:
//
//	-addr string      Listen address (default ":8080")
//	-path string      Websocket path (default "/push")
//	-token string     Required bearer token; empty accepts any
//	-interval duration  Delay between synthetic pushes (default 5s)
//
// Examples:
//
//	# Emit a notification every second, any token accepted
//	notify-sim -interval 1s
//
//	# Require a specific bearer token
//	notify-sim -token devsecret
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	var (
		addr     = flag.String("addr", ":8080", "Listen address")
		path     = flag.String("path", "/push", "Websocket path")
		token    = flag.String("token", "", "Required bearer token; empty accepts any")
		interval = flag.Duration("interval", 5*time.Second, "Delay between synthetic pushes")
	)
	flag.Parse()

	sim := newSimulator(*token)

	mux := http.NewServeMux()
	mux.HandleFunc(*path, sim.handleUpgrade)

	srv := &http.Server{Addr: *addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sim.emitLoop(ctx, *interval)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("notify-sim listening on %s%s\n", *addr, *path)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "notify-sim: %v\n", err)
		os.Exit(1)
	}
}
