package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"vibesort/internal/api"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	Addr         string
	AllowOrigins []string
	llm          llmFlags
}

func newServeCmd(root *Options) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sort operation over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")
	cmd.Flags().StringSliceVar(&opts.AllowOrigins, "allow-origin", nil, "CORS allowed origin (repeatable)")
	opts.llm.bind(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, root *Options, opts *serveOptions) error {
	logger := newLogger(cmd.ErrOrStderr(), root.Verbose)
	if !root.Verbose {
		logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), nil))
		gin.SetMode(gin.ReleaseMode)
	}
	slog.SetDefault(logger)

	sorter, err := opts.llm.newSorter(logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           api.NewRouter(sorter, opts.AllowOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("vibesort listening", "addr", opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
