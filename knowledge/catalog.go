// Package knowledge holds the curated advisory cards shipped with the app.
// Card ids are stable catalog keys: read marks refer to them across releases.
package knowledge

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/wealthgrid/wealth"
)

// Daily expenses under this amount are treated as small habits.
var smallExpense = decimal.NewFromInt(50)

var catalog = []wealth.Card{
	{
		ID:      "k1",
		Title:   "Diminishing marginal utility",
		Concept: "Marginal utility",
		Body:    "The first bubble tea tastes great, the second much less so. The satisfaction from spending falls as quantity rises.",
		Action:  "Next time a second item is half price, ask whether you need it at all. Move the money to investment instead.",
		Tags:    []string{"spending", "psychology"},
	},
	{
		ID:      "k2",
		Title:   "The latte factor",
		Concept: "Small sums add up",
		Body:    "A coffee a day looks harmless, yet over a year it can pay for a new phone. Unnoticed small outflows are usually why money does not get saved.",
		Action:  "Find one latte factor (a subscription, afternoon tea) and cut it. Put the weekly saving into the emergency reserve.",
		Tags:    []string{"saving", "habits"},
	},
	{
		ID:      "k3",
		Title:   "Opportunity cost",
		Concept: "The price of choosing",
		Body:    "Every purchase also costs what else the money could have done. Spending it here means losing the chance to use it somewhere that matters more.",
		Action:  "Before a large purchase, ask what the same money would do spent on yourself: a book, a course.",
		Tags:    []string{"time", "decisions"},
	},
	{
		ID:      "k4",
		Title:   "Sunk cost fallacy",
		Concept: "Cutting losses",
		Body:    "\"I have already paid for it\" keeps people investing more to rescue what is already gone. Past spending should not steer future decisions.",
		Action:  "Review your subscriptions and memberships. Cancel the ones you no longer use, annual fee or not.",
		Tags:    []string{"decisions", "psychology"},
	},
	{
		ID:      "k5",
		Title:   "Compounding",
		Concept: "Time in the market",
		Body:    "Improve by 1% a day and you are 37 times stronger in a year. Money works the same way: start early and let time do the heavy lifting.",
		Action:  "Even 500 a month, invested steadily, becomes a meaningful sum. Start the first regular investment today.",
		Tags:    []string{"investing", "growth"},
	},
	{
		ID:      "k6",
		Title:   "The rule of 72",
		Concept: "Doubling time",
		Body:    "Divide 72 by the annual return to estimate how many years it takes to double your money. At 8% that is 72/8 = 9 years.",
		Action:  "Work out how long your current return takes to double your assets. If it is too slow, revisit the allocation.",
		Tags:    []string{"investing", "math"},
	},
	{
		ID:      "k7",
		Title:   "Parkinson's law of spending",
		Concept: "Lifestyle creep",
		Body:    "Expenses rise to meet income. Many people still save nothing after a raise because their spending rose with it.",
		Action:  "Whenever you get a raise or a bonus, send half of it straight to investment or growth and live on the rest.",
		Tags:    []string{"saving", "behaviour"},
	},
	{
		ID:      "k8",
		Title:   "The four-bucket rule",
		Concept: "Asset allocation",
		Body:    "Split household money into four parts: money to spend, money that protects you, money that earns, and money that grows you. That is the idea behind this app.",
		Action:  "Open the overview and check your grid. Which bucket is too small or too large?",
		Tags:    []string{"allocation", "core"},
	},
}

// Catalog returns a copy of every curated card.
func Catalog() []wealth.Card {
	out := make([]wealth.Card, len(catalog))
	for i, c := range catalog {
		c.Origin = wealth.Curated
		out[i] = c.Clone()
	}
	return out
}

// Lookup finds a curated card by id.
func Lookup(id string) (wealth.Card, bool) {
	for _, c := range catalog {
		if c.ID == id {
			c.Origin = wealth.Curated
			return c.Clone(), true
		}
	}
	return wealth.Card{}, false
}

// IsCurated reports whether id names a catalog card.
func IsCurated(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// ForEntry picks the catalog card that best fits a single transaction. It is
// the commentary shown when the advisory service is unavailable.
func ForEntry(e wealth.Entry) wealth.Card {
	key := "k8"
	switch {
	case e.Kind == wealth.Income:
		key = "k7"
	case strings.Contains(strings.ToLower(e.Category), "subscription"):
		key = "k4"
	case e.Bucket == wealth.Daily && e.Amount.LessThan(smallExpense):
		key = "k2"
	case e.Bucket == wealth.Daily:
		key = "k1"
	case e.Bucket == wealth.Investment:
		key = "k5"
	case e.Bucket == wealth.Growth:
		key = "k3"
	}
	c, _ := Lookup(key)
	return c
}
