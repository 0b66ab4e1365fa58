package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Compare bucket balances with the target grid",
	Long: `Show the actual balance of each bucket next to the amount the profile's
wealth grid targets for the same total.

Example:
  wealthgrid balances`,
	Args: cobra.NoArgs,
	RunE: runBalances,
}

func init() {
	rootCmd.AddCommand(balancesCmd)
}

func runBalances(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "BUCKET\tTARGET %\tTARGET\tACTUAL\tDRIFT\t")
	for _, al := range a.store.Allocation() {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t\n",
			al.Bucket, al.TargetPercent,
			al.Target.StringFixed(2), al.Actual.StringFixed(2), al.Drift.StringFixed(2))
	}
	fmt.Fprintf(w, "total\t\t\t%s\t\t\n", a.store.Balances().Total().StringFixed(2))
	return w.Flush()
}
