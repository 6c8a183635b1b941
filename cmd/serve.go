package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/lezen/internal/export"
	"github.com/abhisek/lezen/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser UI and the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		gen, err := rt.generator(ctx)
		if err != nil {
			return err
		}

		addr := rt.cfg.Server.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		srv := web.New(gen, export.NewDOCX(), web.Options{
			AllowedOrigins: rt.cfg.Server.AllowedOrigins,
		}, rt.log)

		httpSrv := &http.Server{
			Addr:         addr,
			Handler:      srv.Handler(),
			ReadTimeout:  rt.cfg.Server.ReadTimeout,
			WriteTimeout: rt.cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			rt.log.Info("listening", zap.String("addr", addr))
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve: %w", err)
		case <-ctx.Done():
		}

		rt.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
