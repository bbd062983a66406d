package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	figmadash "github.com/kataras/figma-dash"
	"github.com/kataras/figma-dash/pkg/formatter"
	"github.com/kataras/figma-dash/pkg/server"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve outlines over HTTP",
		Long: `Start an HTTP server that renders outlines on demand:

  GET /health
  GET /files/{fileKey}/outline?format=text|markdown|json|yaml|html

The server fetches files with its own token (--token, FIGMA_API_TOKEN or .env).
The listen address comes from --addr or FIGMA_DASH_ADDR (default :8080).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :8080)")

	return cmd
}

func serve(addrFlag string) error {
	format, err := formatter.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	token := resolveToken(accessToken, cfg)
	if token == "" {
		return errors.New("figma API token is required: set --token or FIGMA_API_TOKEN")
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := figmadash.NewClient(figmadash.Options{AccessToken: token, OAuth: oauth})

	httpSrv := &http.Server{
		Addr: resolveAddr(addrFlag, cfg),
		Handler: server.New(client, log, server.Config{
			MaxDepth:       maxDepth,
			DefaultFormat:  format,
			RequestTimeout: 2 * time.Minute,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		color.New(color.FgGreen).Fprintf(os.Stderr, "🎨 figma-dash %s listening on %s\n", version, httpSrv.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return httpSrv.Shutdown(shutdownCtx)
}
