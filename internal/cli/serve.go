package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/web"
)

func newServeCmd(f *Flags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP with live WebSocket updates",
		Example: strings.TrimSpace(`
taskboard serve
taskboard serve --addr 127.0.0.1:8080
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
			hub := web.NewHub(logger)
			go hub.Run(ctx)

			s, _, err := openSession(ctx, cfg,
				board.WithBridge(hub),
				board.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			defer s.Close()

			srv := web.NewServer(cfg.Server, web.NewHandler(s, hub, cfg.Server.AllowedOrigins, logger))

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			fmt.Fprintf(cmd.ErrOrStderr(), "taskboard serving %s at http://%s/api/board\n", cfg.Database.Path, cfg.Server.Addr)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serving: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (overrides server.addr)")
	return cmd
}
