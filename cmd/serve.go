package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpproto "github.com/viant/mcp"
	"github.com/viant/toolproxy/internal/logging"
	"github.com/viant/toolproxy/mcp/gateway"
)

// ServeCmd launches the HTTP gateway over the configured endpoints and,
// with --mcp, an MCP server re-exposing every remote tool. Listen address and
// token default to the gateway section of the config file.
type ServeCmd struct {
	Addr  string `short:"a" long:"addr" description:"gateway listen address (overrides config)"`
	MCP   bool   `long:"mcp" description:"also start the aggregating MCP server (config server section)"`
	Check bool   `long:"check" description:"list every endpoint's tools before serving"`
}

func (c *ServeCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}
	cfg := svc.Config()
	logger := svc.Logger()
	ctx := context.Background()
	if c.Check {
		if err := svc.Warmup(ctx); err != nil {
			return err
		}
	}

	addr := cfg.Gateway.Addr
	if c.Addr != "" {
		addr = c.Addr
	}
	gw := gateway.New(svc,
		gateway.WithToken(cfg.Gateway.Token),
		gateway.WithLogger(logging.Component(logger, "gateway")))
	servers := []*http.Server{{Addr: addr, Handler: gw.Handler(), ReadHeaderTimeout: 10 * time.Second}}

	if c.MCP {
		mcpServer, err := mcpproto.NewServer(svc.NewHandler, cfg.Server)
		if err != nil {
			return err
		}
		servers = append(servers, mcpServer.HTTP(ctx, ""))
	}

	errs := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
		}(srv)
		logger.Info().Str("addr", srv.Addr).Msg("listening")
	}

	// Wait for SIGINT/SIGTERM
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	var serveErr error
	select {
	case <-sigs:
		logger.Info().Msg("shutting down")
	case serveErr = <-errs:
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		_ = srv.Shutdown(shutdownCtx)
	}
	return serveErr
}
