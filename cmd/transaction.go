package cmd

import (
	"fmt"
	"strings"

	"github.com/simonvc/homeledger/internal/client"
	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/spf13/cobra"
)

var transactionCmd = &cobra.Command{
	Use:     "transaction",
	Aliases: []string{"txn"},
	Short:   "Manage transactions",
}

const entryHelp = `Each --entry is formatted as "side:account_id:amount", e.g. "dr:<groceries-id>:42.50".`

var (
	txnDate        string
	txnDescription string
	txnEntries     []string
)

// parseEntry reads "side:account_id:amount" with the amount in major units.
func parseEntry(raw string) (ledger.Entry, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 {
		return ledger.Entry{}, fmt.Errorf("invalid entry %q, expected side:account_id:amount", raw)
	}
	side, err := ledger.ParseSide(parts[0])
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("entry %q: %w", raw, err)
	}
	amount, err := ledger.ParseAmount(parts[2])
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("entry %q: %w", raw, err)
	}
	return ledger.Entry{AccountID: strings.TrimSpace(parts[1]), Side: side, Amount: amount}, nil
}

func transactionInput() (client.TransactionInput, error) {
	in := client.TransactionInput{Date: txnDate, Description: txnDescription}
	for _, raw := range txnEntries {
		e, err := parseEntry(raw)
		if err != nil {
			return in, err
		}
		in.Entries = append(in.Entries, e)
	}
	return in, nil
}

var transactionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Post a balanced transaction",
	Long:  "Post a transaction made of debit and credit entries whose totals match.\n" + entryHelp,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := transactionInput()
		if err != nil {
			return err
		}
		created, err := apiClient().CreateTransaction(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Transaction created: %s\n", created.ID)
		printTransaction(created)
		return nil
	},
}

var transactionReplaceCmd = &cobra.Command{
	Use:   "replace [id]",
	Short: "Replace a transaction's date, description and entries",
	Long:  "Reverse every entry of the transaction and post the new ones in its place.\n" + entryHelp,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := transactionInput()
		if err != nil {
			return err
		}
		updated, err := apiClient().ReplaceTransaction(cmd.Context(), args[0], in)
		if err != nil {
			return err
		}
		fmt.Printf("Transaction replaced: %s\n", updated.ID)
		printTransaction(updated)
		return nil
	},
}

var transactionDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a transaction and reverse its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deleted, err := apiClient().DeleteTransaction(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Transaction deleted: %s (%d entries reversed)\n", deleted.ID, len(deleted.Entries))
		return nil
	},
}

var txnList client.TxnQuery

var transactionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		txns, err := apiClient().ListTransactions(cmd.Context(), txnList)
		if err != nil {
			return err
		}

		if len(txns) == 0 {
			fmt.Println("No transactions found.")
			return nil
		}

		fmt.Printf("%-36s %-10s %12s  %s\n", "ID", "DATE", "AMOUNT", "DESCRIPTION")
		fmt.Printf("%-36s %-10s %12s  %s\n", "----", "----", "------", "-----------")
		for _, t := range txns {
			debit, _ := t.Totals()
			fmt.Printf("%-36s %-10s %12s  %s\n",
				t.ID, t.Date.Format(ledger.DateLayout), ledger.FormatPlain(debit), truncate(t.Description, 40))
		}
		return nil
	},
}

var transactionGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get transaction details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		txn, err := apiClient().GetTransaction(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("ID:          %s\n", txn.ID)
		printTransaction(txn)
		return nil
	},
}

var transactionDescriptionsCmd = &cobra.Command{
	Use:   "descriptions",
	Short: "List recently used descriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		descs, err := apiClient().TransactionDescriptions(cmd.Context())
		if err != nil {
			return err
		}
		for _, d := range descs {
			fmt.Println(d)
		}
		return nil
	},
}

func printTransaction(txn *ledger.Transaction) {
	fmt.Printf("Date:        %s\n", txn.Date.Format(ledger.DateLayout))
	fmt.Printf("Description: %s\n", txn.Description)
	fmt.Printf("Entries:\n")
	fmt.Printf("  %-4s %-36s %12s\n", "SIDE", "ACCOUNT", "AMOUNT")
	for _, e := range txn.Entries {
		fmt.Printf("  %-4s %-36s %12s\n", strings.ToUpper(string(e.Side)), e.AccountID, ledger.FormatPlain(e.Amount))
	}
}

func init() {
	for _, c := range []*cobra.Command{transactionCreateCmd, transactionReplaceCmd} {
		c.Flags().StringVar(&txnDate, "date", "", "Transaction date (YYYY-MM-DD, default today)")
		c.Flags().StringVar(&txnDescription, "description", "", "Transaction description")
		c.Flags().StringArrayVar(&txnEntries, "entry", nil, "Entry as side:account_id:amount (repeatable)")
		c.MarkFlagRequired("entry")
	}

	transactionListCmd.Flags().StringVar(&txnList.AccountID, "account", "", "Filter by account ID")
	transactionListCmd.Flags().StringVar(&txnList.From, "from", "", "Earliest date (YYYY-MM-DD)")
	transactionListCmd.Flags().StringVar(&txnList.To, "to", "", "Latest date (YYYY-MM-DD)")
	transactionListCmd.Flags().IntVar(&txnList.Limit, "limit", 50, "Maximum transactions to show")

	transactionCmd.AddCommand(transactionCreateCmd)
	transactionCmd.AddCommand(transactionReplaceCmd)
	transactionCmd.AddCommand(transactionDeleteCmd)
	transactionCmd.AddCommand(transactionListCmd)
	transactionCmd.AddCommand(transactionGetCmd)
	transactionCmd.AddCommand(transactionDescriptionsCmd)

	rootCmd.AddCommand(transactionCmd)
}
