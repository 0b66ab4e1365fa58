package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/wealthgrid/gateway"
	"github.com/rustyeddy/wealthgrid/wealth"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Read advisory cards",
	Long: `List and read advisory cards: the curated catalog plus cards generated
for you during onboarding or from your transactions.

Examples:
  wealthgrid cards list --unread
  wealthgrid cards read k3
  wealthgrid cards comment <entry-id>`,
}

var cardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cards",
	Args:  cobra.NoArgs,
	RunE:  runCardsList,
}

var cardsReadCmd = &cobra.Command{
	Use:   "read <card-id>",
	Short: "Show a card and mark it read",
	Args:  cobra.ExactArgs(1),
	RunE:  runCardsRead,
}

var cardsCommentCmd = &cobra.Command{
	Use:   "comment <entry-id>",
	Short: "Get advice on one ledger entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runCardsComment,
}

var cardsUnread bool

func init() {
	rootCmd.AddCommand(cardsCmd)
	cardsCmd.AddCommand(cardsListCmd)
	cardsCmd.AddCommand(cardsReadCmd)
	cardsCmd.AddCommand(cardsCommentCmd)

	cardsListCmd.Flags().BoolVarP(&cardsUnread, "unread", "u", false, "only unread cards")
}

func runCardsList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	for _, c := range a.store.Cards() {
		read := a.store.IsRead(c.ID)
		if cardsUnread && read {
			continue
		}
		mark := "•"
		if read {
			mark = " "
		}
		fmt.Fprintf(out, "%s %-20s %-9s %s\n", mark, c.ID, c.Origin, c.Title)
	}
	return nil
}

func printCard(cmd *cobra.Command, c wealth.Card) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", c.Title)
	if c.Concept != "" {
		fmt.Fprintf(out, "[%s]\n", c.Concept)
	}
	fmt.Fprintf(out, "\n%s\n", c.Body)
	if c.Action != "" {
		fmt.Fprintf(out, "\n→ %s\n", c.Action)
	}
	if len(c.Tags) > 0 {
		fmt.Fprintf(out, "\n#%s\n", strings.Join(c.Tags, " #"))
	}
}

func runCardsRead(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	cards := a.store.Cards()
	i := slices.IndexFunc(cards, func(c wealth.Card) bool { return c.ID == args[0] })
	if i < 0 {
		return fmt.Errorf("card %s: %w", args[0], gateway.ErrNotFound)
	}
	printCard(cmd, cards[i])
	return a.store.MarkCardAsRead(cmd.Context(), cards[i].ID)
}

func runCardsComment(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	ledger := a.store.Ledger()
	i := slices.IndexFunc(ledger, func(e wealth.Entry) bool { return e.ID == args[0] })
	if i < 0 {
		return fmt.Errorf("entry %s: %w", args[0], gateway.ErrNotFound)
	}
	printCard(cmd, a.store.CommentOnEntry(cmd.Context(), ledger[i]))
	return nil
}
