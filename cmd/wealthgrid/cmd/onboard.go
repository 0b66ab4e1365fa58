package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/wealthgrid/wealth"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Complete onboarding from questionnaire answers",
	Long: `Turn questionnaire answers into a wealth grid and profile. The first
time, liquid assets are split over the grid as "initial allocation" income.

Answers come from a YAML file of question id to value, and/or --set flags,
which win over the file. Known question ids:
  age_stage                   18-22, 23-28, ...
  life_stage                  student, freshman, ...
  liquid_assets               range option 0, 10000, 30000, 60000 or 100000
                              (seeded at 0, 20000, 45000, 90000, 120000),
                              or any other amount, taken as given; an unquoted
                              number in the answers file is always exact
  risk_choice                 low, medium, high
  knowledge_opportunity_cost  literacy question
  knowledge_no_free_lunch     literacy question

Examples:
  wealthgrid onboard --answers answers.yaml
  wealthgrid onboard --set age_stage=23-28 --set liquid_assets=100000`,
	Args: cobra.NoArgs,
	RunE: runOnboard,
}

var (
	onboardAnswersFile string
	onboardSet         []string
)

func init() {
	rootCmd.AddCommand(onboardCmd)

	onboardCmd.Flags().StringVarP(&onboardAnswersFile, "answers", "a", "", "YAML file of answers")
	onboardCmd.Flags().StringArrayVar(&onboardSet, "set", nil, "answer as question=value (repeatable)")
}

// readAnswers merges the answers file with --set pairs.
func readAnswers(path string, pairs []string) (wealth.Answers, error) {
	answers := wealth.Answers{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read answers: %w", err)
		}
		if err := yaml.Unmarshal(data, &answers); err != nil {
			return nil, fmt.Errorf("parse answers: %w", err)
		}
	}
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("--set %q: want question=value", kv)
		}
		answers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return answers, nil
}

func runOnboard(cmd *cobra.Command, args []string) error {
	answers, err := readAnswers(onboardAnswersFile, onboardSet)
	if err != nil {
		return err
	}
	if len(answers) == 0 {
		return fmt.Errorf("no answers: use --answers or --set")
	}

	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	seededBefore := wealth.Seeded(a.store.Ledger())
	p, err := a.store.CompleteOnboarding(cmd.Context(), answers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Onboarding complete for %s\n", p.Name)
	fmt.Fprintf(out, "  Grid:  %s (emergency/daily/investment/growth)\n", p.Grid)
	fmt.Fprintf(out, "  Score: %d\n", p.FinancialScore)
	fmt.Fprintf(out, "  Risk:  %s\n", p.RiskTolerance)
	switch {
	case seededBefore:
		fmt.Fprintln(out, "  Liquid assets were seeded on an earlier onboarding; ledger unchanged.")
	case wealth.Seeded(a.store.Ledger()):
		fmt.Fprintln(out, "  Seeded initial allocation:")
		for _, e := range a.store.Ledger() {
			if e.Category == wealth.InitialAllocation {
				fmt.Fprintf(out, "    %-10s %12s\n", e.Bucket, e.Amount.StringFixed(2))
			}
		}
	}
	return nil
}
