package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonvc/homeledger/internal/ledger"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Net worth, monthly and consistency reports",
}

var reportPeriod string

// parsePeriod reads "YYYY-MM"; empty means the current month.
func parsePeriod(s string) (ledger.Period, error) {
	if s == "" {
		return ledger.CurrentPeriod(time.Now()), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return ledger.Period{}, fmt.Errorf("%w: %q, expected YYYY-MM", ledger.ErrInvalidPeriod, s)
	}
	return ledger.CurrentPeriod(t), nil
}

var reportNetWorthCmd = &cobra.Command{
	Use:   "networth",
	Short: "Show net worth across all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		nw, err := apiClient().NetWorth(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Net worth: %s\n", nw.NetWorth.StringFixed(2))
		return nil
	},
}

var reportIncomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Show income, expense and savings rate for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePeriod(reportPeriod)
		if err != nil {
			return err
		}
		ie, err := apiClient().IncomeExpense(cmd.Context(), p)
		if err != nil {
			return err
		}
		printIncomeExpense(ie)
		return nil
	},
}

var reportCategoryType string

var reportCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show per-account totals for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePeriod(reportPeriod)
		if err != nil {
			return err
		}
		totals, err := apiClient().CategoryTotals(cmd.Context(), p, ledger.AccountType(reportCategoryType))
		if err != nil {
			return err
		}
		fmt.Printf("%s by account, %s\n\n", ledger.AccountType(reportCategoryType).Label(), p)
		printCategories(totals)
		return nil
	},
}

var reportDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the monthly dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePeriod(reportPeriod)
		if err != nil {
			return err
		}
		d, err := apiClient().Dashboard(cmd.Context(), p)
		if err != nil {
			return err
		}
		fmt.Printf("Net worth: %s\n\n", d.NetWorth.StringFixed(2))
		printIncomeExpense(&d.IncomeExpense)
		fmt.Println()
		printCategories(d.Expenses)
		return nil
	},
}

var reportTrialCmd = &cobra.Command{
	Use:   "trial",
	Short: "Show trial balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		tb, err := apiClient().TrialBalance(cmd.Context())
		if err != nil {
			return err
		}
		printTrialBalance(tb)
		return nil
	},
}

var reportCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify stored balances against posted entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		check, err := apiClient().VerifyBalances(cmd.Context())
		if err != nil {
			return err
		}
		if check.Consistent {
			fmt.Printf("All %d account balances match their entries.\n", check.Accounts)
			return nil
		}
		fmt.Printf("%d of %d accounts drifted:\n", len(check.Drift), check.Accounts)
		for _, d := range check.Drift {
			fmt.Printf("  %-36s %-24s stored %s, entries %s\n",
				d.AccountID, truncate(d.Name, 24), ledger.FormatPlain(d.Stored), ledger.FormatPlain(d.Computed))
		}
		return fmt.Errorf("balances are inconsistent")
	},
}

func printIncomeExpense(ie *ledger.IncomeExpense) {
	fmt.Printf("Period:       %s\n", ie.Period)
	fmt.Printf("Income:       %12s\n", ie.Income.StringFixed(2))
	fmt.Printf("Expense:      %12s\n", ie.Expense.StringFixed(2))
	fmt.Printf("Cash flow:    %12s\n", formatSigned(ie.CashFlow))
	fmt.Printf("Savings rate: %11s%%\n", ie.SavingsRate.StringFixed(2))
}

func printCategories(totals []ledger.CategoryTotal) {
	if len(totals) == 0 {
		fmt.Println("No activity.")
		return
	}
	var sum decimal.Decimal
	for _, c := range totals {
		fmt.Printf("  %-30s %12s\n", truncate(c.AccountName, 30), formatSigned(c.Amount))
		sum = sum.Add(c.Amount)
	}
	fmt.Printf("  %s\n", strings.Repeat("─", 43))
	fmt.Printf("  %-30s %12s\n", "Total", formatSigned(sum))
}

func printTrialBalance(tb *ledger.TrialBalance) {
	w := 70
	fmt.Println()
	fmt.Println(center("TRIAL BALANCE", w))
	fmt.Println(center(strings.Repeat("=", 20), w))
	fmt.Println()

	fmt.Printf("  %-30s %-10s %12s %12s\n", "NAME", "TYPE", "DEBIT", "CREDIT")
	fmt.Printf("  %-30s %-10s %12s %12s\n", "----", "----", "-----", "------")

	for _, l := range tb.Lines {
		debit, credit := "", ""
		if l.Debit > 0 {
			debit = ledger.FormatPlain(l.Debit)
		}
		if l.Credit > 0 {
			credit = ledger.FormatPlain(l.Credit)
		}
		fmt.Printf("  %-30s %-10s %12s %12s\n", truncate(l.AccountName, 30), l.Type, debit, credit)
	}

	fmt.Printf("  %s\n", strings.Repeat("─", w-4))
	fmt.Printf("  %-41s %12s %12s\n", "TOTALS", ledger.FormatPlain(tb.TotalDebit), ledger.FormatPlain(tb.TotalCredit))

	if tb.Balanced {
		fmt.Println("\n  [BALANCED]")
	} else {
		fmt.Println("\n  [UNBALANCED!]")
	}
}

func center(s string, w int) string {
	if len(s) >= w {
		return s
	}
	pad := (w - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func formatSigned(d decimal.Decimal) string {
	if d.IsNegative() {
		return "(" + d.Neg().StringFixed(2) + ")"
	}
	return d.StringFixed(2)
}

func init() {
	for _, c := range []*cobra.Command{reportIncomeCmd, reportCategoriesCmd, reportDashboardCmd} {
		c.Flags().StringVar(&reportPeriod, "period", "", "Month as YYYY-MM (default current month)")
	}
	reportCategoriesCmd.Flags().StringVar(&reportCategoryType, "type", string(ledger.TypeExpense), "Account type to break down")

	reportCmd.AddCommand(reportNetWorthCmd)
	reportCmd.AddCommand(reportIncomeCmd)
	reportCmd.AddCommand(reportCategoriesCmd)
	reportCmd.AddCommand(reportDashboardCmd)
	reportCmd.AddCommand(reportTrialCmd)
	reportCmd.AddCommand(reportCheckCmd)

	rootCmd.AddCommand(reportCmd)
}
