package cmd

import (
	"fmt"
	"strconv"

	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage accounts",
}

// account create
var (
	acctCreateName       string
	acctCreateType       string
	acctCreateInvestment bool
)

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := apiClient().CreateAccount(cmd.Context(), acctCreateName,
			ledger.AccountType(acctCreateType), acctCreateInvestment)
		if err != nil {
			return err
		}

		fmt.Printf("Account created: %s (%s) %s, normal side %s\n",
			created.ID, created.Name, created.Type, created.NormalSide.Label())
		return nil
	},
}

// account list
var (
	acctListType       string
	acctListInvestment string
)

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var investment *bool
		if acctListInvestment != "" {
			v, err := strconv.ParseBool(acctListInvestment)
			if err != nil {
				return fmt.Errorf("invalid --investment %q: %w", acctListInvestment, err)
			}
			investment = &v
		}

		accounts, err := apiClient().ListAccounts(cmd.Context(), acctListType, investment)
		if err != nil {
			return err
		}

		if len(accounts) == 0 {
			fmt.Println("No accounts found.")
			return nil
		}

		fmt.Printf("%-36s %-28s %-10s %14s %s\n", "ID", "NAME", "TYPE", "BALANCE", "INV")
		fmt.Printf("%-36s %-28s %-10s %14s %s\n", "----", "----", "----", "-------", "---")
		for _, a := range accounts {
			inv := ""
			if a.IsInvestment {
				inv = "yes"
			}
			fmt.Printf("%-36s %-28s %-10s %14s %s\n",
				a.ID, truncate(a.Name, 28), a.Type, ledger.FormatPlain(a.Balance), inv)
		}
		return nil
	},
}

var accountGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get account details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acct, err := apiClient().GetAccount(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:          %s\n", acct.ID)
		fmt.Printf("Name:        %s\n", acct.Name)
		fmt.Printf("Type:        %s\n", acct.Type.Label())
		fmt.Printf("Normal side: %s\n", acct.NormalSide.Label())
		fmt.Printf("Balance:     %s\n", ledger.FormatPlain(acct.Balance))
		fmt.Printf("Investment:  %v\n", acct.IsInvestment)
		fmt.Printf("Created:     %s\n", acct.CreatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var acctRenameName string

var accountRenameCmd = &cobra.Command{
	Use:   "rename [id]",
	Short: "Rename an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acct, err := apiClient().RenameAccount(cmd.Context(), args[0], acctRenameName)
		if err != nil {
			return err
		}
		fmt.Printf("Account %s renamed to %s\n", acct.ID, acct.Name)
		return nil
	},
}

var acctEntriesLimit int

var accountEntriesCmd = &cobra.Command{
	Use:   "entries [id]",
	Short: "List entries posted to an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := apiClient().ListAccountEntries(cmd.Context(), args[0], acctEntriesLimit)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No entries found.")
			return nil
		}

		fmt.Printf("%-10s %-4s %12s  %s\n", "DATE", "SIDE", "AMOUNT", "DESCRIPTION")
		for _, e := range entries {
			fmt.Printf("%-10s %-4s %12s  %s\n",
				e.Date.Format(ledger.DateLayout), e.Side, ledger.FormatPlain(e.Amount), truncate(e.Description, 40))
		}
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-2] + ".."
}

func init() {
	accountCreateCmd.Flags().StringVar(&acctCreateName, "name", "", "Account name")
	accountCreateCmd.Flags().StringVar(&acctCreateType, "type", "", "Account type (asset, liability, equity, income, expense)")
	accountCreateCmd.Flags().BoolVar(&acctCreateInvestment, "investment", false, "Mark as an investment account")
	accountCreateCmd.MarkFlagRequired("name")
	accountCreateCmd.MarkFlagRequired("type")

	accountListCmd.Flags().StringVar(&acctListType, "type", "", "Filter by account type")
	accountListCmd.Flags().StringVar(&acctListInvestment, "investment", "", "Filter by investment flag (true or false)")

	accountRenameCmd.Flags().StringVar(&acctRenameName, "name", "", "New account name")
	accountRenameCmd.MarkFlagRequired("name")

	accountEntriesCmd.Flags().IntVar(&acctEntriesLimit, "limit", 50, "Maximum entries to show")

	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountGetCmd)
	accountCmd.AddCommand(accountRenameCmd)
	accountCmd.AddCommand(accountEntriesCmd)

	rootCmd.AddCommand(accountCmd)
}
