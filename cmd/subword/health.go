package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/go-subword/internal/server"
)

func newHealthCmd() *cobra.Command {
	var (
		addr         string
		timeout      time.Duration
		requireModel bool
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Query GET /health on a running subword server",
		Long: "Query GET /health on a server started with \"subword serve\" and print its " +
			"status: ok when a model is loaded, untrained otherwise. The server also " +
			"answers GET /vocab, POST /tokenize and POST /decode.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.ListenAddr
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			h, err := server.CheckHealth(ctx, addr)
			if err != nil {
				return err
			}

			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (version %s)\n", h.Status, h.Version); err != nil {
				return err
			}
			if requireModel && h.Status != "ok" {
				return errors.New("server has no model loaded")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "server address (host:port or URL); defaults to server.listen_addr")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	cmd.Flags().BoolVar(&requireModel, "require-model", false, "fail unless the server has a model loaded")

	return cmd
}
