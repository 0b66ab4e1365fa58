package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/wealthgrid/wealth"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Record and query income and expenses",
	Long: `Manage the ledger of income and expense entries.

Subcommands:
  add     - Record an income or expense
  list    - List entries, newest first
  delete  - Delete an entry by id
  clear   - Delete every entry
  export  - Write the ledger as CSV

Examples:
  wealthgrid ledger add --type expense --amount 12.50 --bucket daily --category coffee
  wealthgrid ledger list
  wealthgrid ledger export -o ledger.csv`,
}

var ledgerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an income or expense",
	Args:  cobra.NoArgs,
	RunE:  runLedgerAdd,
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries, newest first",
	Args:  cobra.NoArgs,
	RunE:  runLedgerList,
}

var ledgerDeleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runLedgerDelete,
}

var ledgerClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every entry",
	Args:  cobra.NoArgs,
	RunE:  runLedgerClear,
}

var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the ledger as CSV",
	Args:  cobra.NoArgs,
	RunE:  runLedgerExport,
}

var (
	ledgerKind     string
	ledgerAmount   string
	ledgerBucket   string
	ledgerCategory string
	ledgerNote     string
	ledgerDate     string
	ledgerComment  bool
	ledgerYes      bool
	ledgerOutput   string
)

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerAddCmd)
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerDeleteCmd)
	ledgerCmd.AddCommand(ledgerClearCmd)
	ledgerCmd.AddCommand(ledgerExportCmd)

	ledgerAddCmd.Flags().StringVarP(&ledgerKind, "type", "t", "expense", "income or expense")
	ledgerAddCmd.Flags().StringVarP(&ledgerAmount, "amount", "a", "", "amount, two decimals (required)")
	ledgerAddCmd.Flags().StringVarP(&ledgerBucket, "bucket", "b", "", "emergency, daily, investment or growth (income defaults to daily)")
	ledgerAddCmd.Flags().StringVar(&ledgerCategory, "category", "", "category")
	ledgerAddCmd.Flags().StringVar(&ledgerNote, "note", "", "free-text note")
	ledgerAddCmd.Flags().StringVar(&ledgerDate, "date", "", "date as YYYY-MM-DD (default now)")
	ledgerAddCmd.Flags().BoolVar(&ledgerComment, "comment", false, "ask for advice on the new entry")
	_ = ledgerAddCmd.MarkFlagRequired("amount")

	ledgerClearCmd.Flags().BoolVarP(&ledgerYes, "yes", "y", false, "confirm deleting every entry")
	ledgerExportCmd.Flags().StringVarP(&ledgerOutput, "output", "o", "", "CSV file (default stdout)")
}

// parseEntry builds an entry from the add flags.
func parseEntry(kind, amount, bucket, category, note, date string) (wealth.Entry, error) {
	k, err := wealth.ParseKind(kind)
	if err != nil {
		return wealth.Entry{}, err
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return wealth.Entry{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	e := wealth.Entry{Kind: k, Amount: amt, Category: category, Note: note}
	if bucket != "" {
		if e.Bucket, err = wealth.ParseBucket(bucket); err != nil {
			return wealth.Entry{}, err
		}
	}
	if date != "" {
		if e.Time, err = time.ParseInLocation("2006-01-02", date, time.Local); err != nil {
			return wealth.Entry{}, fmt.Errorf("date: %w", err)
		}
	}
	return e, nil
}

func runLedgerAdd(cmd *cobra.Command, args []string) error {
	e, err := parseEntry(ledgerKind, ledgerAmount, ledgerBucket, ledgerCategory, ledgerNote, ledgerDate)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	got, err := a.store.AddLedgerEntry(cmd.Context(), e)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Recorded %s %s in %s (%s)\n", got.Kind, got.Amount.StringFixed(2), got.Bucket, got.ID)

	if ledgerComment {
		c := a.store.CommentOnEntry(cmd.Context(), got)
		fmt.Fprintf(out, "\n%s\n%s\n", c.Title, c.Body)
		if c.Action != "" {
			fmt.Fprintf(out, "→ %s\n", c.Action)
		}
	}
	return nil
}

func runLedgerList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	ledger := a.store.Ledger()
	if len(ledger) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No entries.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tBUCKET\tAMOUNT\tCATEGORY\tNOTE")
	for _, e := range ledger {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Time.Local().Format("2006-01-02"), e.Kind, e.Bucket,
			e.Amount.StringFixed(2), e.Category, e.Note)
	}
	return w.Flush()
}

func runLedgerDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.DeleteLedgerEntry(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
	return nil
}

func runLedgerClear(cmd *cobra.Command, args []string) error {
	if !ledgerYes {
		return fmt.Errorf("refusing to delete every entry without --yes")
	}
	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	n := len(a.store.Ledger())
	if err := a.store.ClearLedger(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d entries\n", n)
	return nil
}

func runLedgerExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	var w io.Writer = cmd.OutOrStdout()
	if ledgerOutput != "" {
		f, err := os.Create(ledgerOutput)
		if err != nil {
			return fmt.Errorf("create export: %w", err)
		}
		defer f.Close()
		w = f
	}
	return writeLedgerCSV(w, a.store.Ledger())
}

func writeLedgerCSV(w io.Writer, ledger []wealth.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "date", "type", "bucket", "amount", "category", "note"}); err != nil {
		return err
	}
	for _, e := range ledger {
		rec := []string{
			e.ID,
			e.Time.UTC().Format(time.RFC3339),
			string(e.Kind),
			string(e.Bucket),
			e.Amount.StringFixed(2),
			e.Category,
			e.Note,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
