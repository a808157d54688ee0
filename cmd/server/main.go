package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/effective-security/xlog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"

	"twstock/internal/config"
	"twstock/internal/wiring"
)

var logger = xlog.NewPackageLogger("twstock/cmd", "server")

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// stdout belongs to the stdio transport
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.KV(xlog.ERROR, "status", "config", "err", err.Error())
		os.Exit(1)
	}
	xlog.SetGlobalLogLevel(wiring.LogLevel(cfg.Server.LogLevel))

	svc := wiring.NewService(cfg)
	mcpSrv := wiring.NewMCPServer(svc, version)

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		err = serveHTTP(mcpSrv, cfg.Server.Port)
	default:
		logger.KV(xlog.INFO, "status", "serving", "transport", "stdio", "version", version)
		err = server.ServeStdio(mcpSrv)
	}
	if err != nil {
		logger.KV(xlog.ERROR, "status", "server", "err", err.Error())
		os.Exit(1)
	}
}

func serveHTTP(mcpSrv *server.MCPServer, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           newHandler(mcpSrv),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.KV(xlog.INFO, "status", "serving", "transport", "http", "addr", srv.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newHandler routes the streamable HTTP MCP endpoint and a health probe.
func newHandler(mcpSrv *server.MCPServer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(limitBody)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/mcp", server.NewStreamableHTTPServer(mcpSrv))
	return r
}

// limitBody caps request body size to avoid memory abuse.
func limitBody(next http.Handler) http.Handler {
	const maxBody = 1 << 20 // 1MB
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		}
		next.ServeHTTP(w, r)
	})
}
