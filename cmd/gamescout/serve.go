package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/otterworks/gamescout/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				if addr == "" {
					addr = d.Config.HTTP.Addr
				}

				srv := server.NewServer(d.Games, d.Research, d.Answer, logger)
				httpSrv := &http.Server{
					Addr:              addr,
					Handler:           srv.SetupRouter(),
					ReadHeaderTimeout: 10 * time.Second,
				}

				errCh := make(chan error, 1)
				go func() {
					errCh <- httpSrv.ListenAndServe()
				}()
				logger.Info("http server listening", zap.String("addr", addr))

				select {
				case err := <-errCh:
					if errors.Is(err, http.ErrServerClosed) {
						return nil
					}
					return err
				case <-cmd.Context().Done():
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					return httpSrv.Shutdown(shutdownCtx)
				}
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to config http.addr)")

	return cmd
}
