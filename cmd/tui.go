package cmd

import (
	"fmt"
	"net"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/simonvc/homeledger/internal/client"
	"github.com/simonvc/homeledger/internal/config"
	"github.com/simonvc/homeledger/internal/session"
	"github.com/simonvc/homeledger/internal/tui"
	"github.com/spf13/cobra"
)

var tuiOwner string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: "Launch the terminal dashboard. Without --server it serves the local database\n" +
		"on a loopback port for the lifetime of the UI, acting as --owner.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := apiClient()

		if !cmd.Flags().Changed(config.KeyServer) {
			secret := []byte(cfg.JWTSecret)
			if len(secret) == 0 {
				secret = []byte(uuid.NewString())
			}
			token, err := session.Issue(secret, tuiOwner, cfg.TokenTTL)
			if err != nil {
				return err
			}

			// Access logs on stderr would draw over the UI.
			if cfg.LogFile == "" {
				logger = logger.Level(zerolog.WarnLevel)
			}

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}

			srv, cleanup, err := newServer(cmd.Context(), ln.Addr().String(), secret)
			if err != nil {
				ln.Close()
				return err
			}
			defer cleanup()

			go func() {
				if err := srv.Serve(ln); err != nil {
					logger.Error().Err(err).Msg("embedded server stopped")
				}
			}()

			c = client.New("http://"+ln.Addr().String(), token)
			if err := c.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("embedded server not ready: %w", err)
			}
		}

		p := tea.NewProgram(tui.NewApp(c), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		_, err := p.Run()
		return err
	},
}

func init() {
	owner := os.Getenv("USER")
	if owner == "" {
		owner = "me"
	}
	tuiCmd.Flags().StringVar(&tuiOwner, "owner", owner, "Owner to act as when serving the local database")
	rootCmd.AddCommand(tuiCmd)
}
