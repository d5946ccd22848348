package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	httpadapter "github.com/aretw0/optionsbot/pkg/adapters/http"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/observability"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Exposes compile, check, format, serialize, deserialize and simulate over
HTTP, plus stored reports, the OpenAPI document and Prometheus metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetString("port")
			logger := loggerFrom(cmd)

			reg := prometheus.NewRegistry()
			metrics := observability.NewMetrics(reg)
			profile, err := loadProfile(cmd)
			if err != nil {
				return err
			}
			eng, cleanup, err := buildEngine(cmd, engineSetup{profile: profile, hooks: []domain.BatchHooks{metrics.Hooks()}})
			if err != nil {
				return err
			}
			defer cleanup()

			handler, err := httpadapter.NewHandler(eng,
				httpadapter.WithGatherer(reg),
				httpadapter.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				logger.Info("starting optionsbot server", "address", srv.Addr)
				serverErrors <- srv.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)

			case <-cmd.Context().Done():
				logger.Info("shutdown signal received")

				// Give outstanding requests a deadline for completion.
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					_ = srv.Close()
					return fmt.Errorf("graceful shutdown did not complete: %w", err)
				}
				logger.Info("server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().String("profile", "", "Batch profile applied to every simulation")
	return cmd
}
