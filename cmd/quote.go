package cmd

import (
	"fmt"

	"github.com/simonvc/homeledger/internal/client"
	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Record and read stock quotes",
}

var quoteAdd client.QuoteInput

var quoteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a quote snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := apiClient().AppendQuote(cmd.Context(), quoteAdd)
		if err != nil {
			return err
		}
		printQuote(q)
		return nil
	},
}

var quoteLatestCmd = &cobra.Command{
	Use:   "latest [ticker]",
	Short: "Show the most recent quote for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := apiClient().LatestQuote(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printQuote(q)
		return nil
	},
}

func printQuote(q *ledger.StockPrice) {
	fmt.Printf("%s %s %s (%s, %s)\n", q.Ticker, ledger.FormatPlain(q.Price), q.Currency,
		q.Provider, q.CreatedAt.Format("2006-01-02 15:04:05"))
}

func init() {
	quoteAddCmd.Flags().StringVar(&quoteAdd.Ticker, "ticker", "", "Ticker symbol")
	quoteAddCmd.Flags().StringVar(&quoteAdd.Price, "price", "", "Quoted price")
	quoteAddCmd.Flags().StringVar(&quoteAdd.Currency, "currency", "", "Currency (default "+ledger.DefaultCurrency+")")
	quoteAddCmd.Flags().StringVar(&quoteAdd.Provider, "provider", "", "Quote provider (default "+ledger.ProviderGoogleFinance+")")
	quoteAddCmd.MarkFlagRequired("ticker")
	quoteAddCmd.MarkFlagRequired("price")

	quoteCmd.AddCommand(quoteAddCmd)
	quoteCmd.AddCommand(quoteLatestCmd)

	rootCmd.AddCommand(quoteCmd)
}
