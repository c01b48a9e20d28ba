package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/simonvc/homeledger/internal/quotes"
	"github.com/simonvc/homeledger/internal/server"
	"github.com/simonvc/homeledger/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := cfg.RequireSecret()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, cleanup, err := newServer(ctx, cfg.Addr, secret)
		if err != nil {
			return err
		}
		defer cleanup()

		return srv.Run(ctx)
	},
}

// newServer opens the database and, when a Redis URL is configured, the
// quote cache in front of it.
func newServer(ctx context.Context, addr string, secret []byte) (*server.Server, func(), error) {
	st, err := store.Open(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	cleanup := func() { st.Close() }

	var qs quotes.Store = st
	if cfg.RedisURL != "" {
		rdb, err := quotes.Connect(ctx, cfg.RedisURL)
		if err != nil {
			st.Close()
			return nil, nil, err
		}
		qs = quotes.New(st, rdb, cfg.QuoteCacheTTL)
		cleanup = func() {
			rdb.Close()
			st.Close()
		}
		logger.Info().Dur("ttl", cfg.QuoteCacheTTL).Msg("quote cache enabled")
	}

	srv := server.New(st, qs, server.Options{
		Addr:        addr,
		JWTSecret:   secret,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})
	return srv, cleanup, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
