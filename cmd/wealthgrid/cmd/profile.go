package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/wealthgrid/store"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or reset the financial profile",
	Long: `Show the signed-in user's profile, or reset onboarding so the
questionnaire can be taken again.

Examples:
  wealthgrid profile show
  wealthgrid profile reset`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Mark onboarding as not done",
	Long: `Clear the onboarded flag. Answers, grid and ledger are kept, and
retaking the questionnaire will not seed liquid assets a second time.`,
	Args: cobra.NoArgs,
	RunE: runProfileReset,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileResetCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	p, ok := a.store.Profile()
	if !ok {
		return store.ErrNoSession
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:       %s\n", p.Name)
	fmt.Fprintf(out, "Identity:   %s\n", p.IdentityID)
	fmt.Fprintf(out, "Onboarded:  %t\n", p.Onboarded)
	fmt.Fprintf(out, "Score:      %d\n", p.FinancialScore)
	fmt.Fprintf(out, "Risk:       %s\n", p.RiskTolerance)
	fmt.Fprintf(out, "Grid:       %s (emergency/daily/investment/growth)\n", p.Grid)
	if len(p.Answers) > 0 {
		fmt.Fprintln(out, "Answers:")
		for _, k := range slices.Sorted(maps.Keys(p.Answers)) {
			fmt.Fprintf(out, "  %-28s %v\n", k+":", p.Answers[k])
		}
	}
	fmt.Fprintf(out, "Sync:       profile=%s ledger=%s cards=%s\n",
		a.store.Status(store.ProfileCollection),
		a.store.Status(store.LedgerCollection),
		a.store.Status(store.CardsCollection))
	return nil
}

func runProfileReset(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.ResetOnboarding(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Onboarding reset. Run 'wealthgrid onboard' to retake the questionnaire.")
	return nil
}
