package main

import (
	"log/slog"
	"net/http"
	"os"

	_ "net/http/pprof" // profiling

	"github.com/andresj-sanchez/SR2/internal/configure/cmd"
	"github.com/andresj-sanchez/SR2/internal/configure/log"
)

const defaultProfileAddr = "localhost:6060"

func main() {
	defer log.RecoverPanic("main", func() {
		slog.Error("Configure terminated due to unhandled panic")
		os.Exit(2)
	})

	// CONFIGURE_PROFILE=1 serves pprof on the default address; any other
	// value is taken as the listen address.
	if addr := os.Getenv("CONFIGURE_PROFILE"); addr != "" {
		if addr == "1" {
			addr = defaultProfileAddr
		}
		go func() {
			slog.Info("Serving pprof", "addr", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				slog.Error("Failed to serve pprof", "error", err)
			}
		}()
	}

	cmd.Execute()
}
