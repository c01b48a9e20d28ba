package cmd

import (
	"fmt"

	"github.com/simonvc/homeledger/internal/session"
	"github.com/spf13/cobra"
)

var tokenOwner string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for an owner",
	Long:  "Mint a signed bearer token. Pass it to client commands with --token or HOMELEDGER_TOKEN.",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := cfg.RequireSecret()
		if err != nil {
			return err
		}
		token, err := session.Issue(secret, tokenOwner, cfg.TokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenOwner, "owner", "", "Owner id to embed in the token")
	tokenCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(tokenCmd)
}
