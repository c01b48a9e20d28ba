package cmd

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/simonvc/homeledger/internal/client"
	"github.com/simonvc/homeledger/internal/config"
	"github.com/simonvc/homeledger/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	logger    zerolog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "homeledger",
	Short: "Personal double-entry ledger",
	Long: "A personal finance ledger backed by SQLite: accounts, balanced transactions,\n" +
		"monthly reports and an investment portfolio, served over HTTP.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		logger, logCloser, err = logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
		if err != nil {
			return err
		}
		cmd.SetContext(logger.WithContext(cmd.Context()))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
}

func Execute() error {
	return rootCmd.Execute()
}

func apiClient() *client.Client {
	return client.New(cfg.Server, cfg.Token)
}
