package cmd

import (
	"fmt"

	"github.com/simonvc/homeledger/internal/client"
	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/spf13/cobra"
)

var investCmd = &cobra.Command{
	Use:     "invest",
	Aliases: []string{"investment"},
	Short:   "Track investment lots and portfolio value",
}

var investAdd client.InvestmentInput

var investAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a purchase lot",
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := apiClient().CreateInvestment(cmd.Context(), investAdd)
		if err != nil {
			return err
		}
		fmt.Printf("Investment recorded: %s %s x %s @ %s %s\n",
			inv.ID, inv.Ticker, inv.Shares().String(), inv.UnitPrice().String(), inv.Currency)
		return nil
	},
}

var investListCmd = &cobra.Command{
	Use:   "list",
	Short: "List purchase lots",
	RunE: func(cmd *cobra.Command, args []string) error {
		lots, err := apiClient().ListInvestments(cmd.Context())
		if err != nil {
			return err
		}
		if len(lots) == 0 {
			fmt.Println("No investments found.")
			return nil
		}

		fmt.Printf("%-36s %-10s %-8s %12s %12s %s\n", "ID", "DATE", "TICKER", "SHARES", "PRICE", "CCY")
		for _, inv := range lots {
			fmt.Printf("%-36s %-10s %-8s %12s %12s %s\n",
				inv.ID, inv.Date.Format(ledger.DateLayout), inv.Ticker,
				inv.Shares().String(), inv.UnitPrice().StringFixed(2), inv.Currency)
		}
		return nil
	},
}

var investDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a purchase lot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := apiClient().DeleteInvestment(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Investment deleted: %s (%s)\n", inv.ID, inv.Ticker)
		return nil
	},
}

var investSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show positions marked to the latest quotes",
	RunE: func(cmd *cobra.Command, args []string) error {
		sum, err := apiClient().InvestmentSummary(cmd.Context())
		if err != nil {
			return err
		}
		if len(sum.Positions) == 0 {
			fmt.Println("No positions.")
			return nil
		}

		fmt.Printf("%-8s %-4s %10s %10s %10s %12s %12s %8s\n", "TICKER", "CUR", "SHARES", "AVG", "PRICE", "VALUE", "GAIN", "GAIN%")
		for _, p := range sum.Positions {
			price := p.CurrentPrice.StringFixed(2)
			if !p.HasQuote {
				price = "n/a"
			}
			fmt.Printf("%-8s %-4s %10s %10s %10s %12s %12s %7s%%\n",
				p.Ticker, p.Currency, p.TotalShares.String(), p.AveragePrice.StringFixed(2), price,
				p.MarketValue.StringFixed(2), p.Gain.StringFixed(2), p.GainPercent.StringFixed(2))
		}
		for _, tot := range sum.Totals {
			fmt.Printf("\n%s\nCost:  %s\nValue: %s\nGain:  %s\n", tot.Currency,
				tot.TotalCost.StringFixed(2), tot.MarketValue.StringFixed(2), tot.Gain.StringFixed(2))
		}
		return nil
	},
}

func init() {
	investAddCmd.Flags().StringVar(&investAdd.Ticker, "ticker", "", "Ticker symbol")
	investAddCmd.Flags().StringVar(&investAdd.Price, "price", "", "Price per share")
	investAddCmd.Flags().StringVar(&investAdd.Share, "shares", "", "Number of shares")
	investAddCmd.Flags().StringVar(&investAdd.Date, "date", "", "Purchase date (YYYY-MM-DD, default today)")
	investAddCmd.Flags().StringVar(&investAdd.Currency, "currency", "", "Currency (default "+ledger.DefaultCurrency+")")
	investAddCmd.MarkFlagRequired("ticker")
	investAddCmd.MarkFlagRequired("price")
	investAddCmd.MarkFlagRequired("shares")

	investCmd.AddCommand(investAddCmd)
	investCmd.AddCommand(investListCmd)
	investCmd.AddCommand(investDeleteCmd)
	investCmd.AddCommand(investSummaryCmd)

	rootCmd.AddCommand(investCmd)
}
