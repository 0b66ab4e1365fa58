package wealth

import "github.com/shopspring/decimal"

// Question ids the calculator understands.
const (
	QAgeStage     = "age_stage"
	QLifeStage    = "life_stage"
	QLiquidAssets = "liquid_assets"
	QRiskChoice   = "risk_choice"
	QOppCost      = "knowledge_opportunity_cost"
	QNoFreeLunch  = "knowledge_no_free_lunch"
)

// Young savers keep more for daily life and self-development and less in
// long-term investment.
var (
	studentGrid     = Grid{Emergency: 10, Daily: 40, Investment: 10, Growth: 40}
	earlyCareerGrid = Grid{Emergency: 15, Daily: 30, Investment: 30, Growth: 25}
)

var ageStageGrids = map[string]Grid{
	"18-22": studentGrid,
	"23-28": earlyCareerGrid,
}

var lifeStageGrids = map[string]Grid{
	"student":  studentGrid,
	"freshman": earlyCareerGrid,
}

// ComputeTargetGrid maps questionnaire answers to a target allocation without
// any I/O. It is the fallback whenever the advisory service cannot answer.
func ComputeTargetGrid(a Answers) Grid {
	if age := a.String(QAgeStage); age != "" {
		if g, ok := ageStageGrids[age]; ok {
			return g
		}
		return DefaultGrid
	}
	if g, ok := lifeStageGrids[a.String(QLifeStage)]; ok {
		return g
	}
	return DefaultGrid
}

// Balances holds the derived amount in each bucket.
type Balances map[Bucket]decimal.Decimal

// Total sums every bucket.
func (b Balances) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, bk := range Buckets {
		sum = sum.Add(b[bk])
	}
	return sum
}

// ComputeActualBalances sums the ledger per bucket: income adds, expense
// subtracts. Every bucket is present in the result. Negative balances are
// reported as they are.
func ComputeActualBalances(ledger []Entry) Balances {
	out := make(Balances, len(Buckets))
	for _, b := range Buckets {
		out[b] = decimal.Zero
	}
	for _, e := range ledger {
		if !e.Bucket.Valid() {
			continue
		}
		out[e.Bucket] = out[e.Bucket].Add(e.Signed())
	}
	return out
}

// Allocation compares one bucket's target with what the ledger shows.
type Allocation struct {
	Bucket        Bucket
	TargetPercent int
	Target        decimal.Decimal
	Actual        decimal.Decimal
	// Drift is Actual - Target; negative means under-funded.
	Drift decimal.Decimal
}

// CompareGrid spreads the ledger total over the grid and sets each bucket's
// share next to its actual balance. A non-positive total yields zero targets.
func CompareGrid(g Grid, bal Balances) []Allocation {
	total := bal.Total()
	if total.IsNegative() {
		total = decimal.Zero
	}

	out := make([]Allocation, 0, len(Buckets))
	for _, b := range Buckets {
		pct := g.Percent(b)
		target := total.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100)).Round(2)
		actual := bal[b]
		out = append(out, Allocation{
			Bucket:        b,
			TargetPercent: pct,
			Target:        target,
			Actual:        actual,
			Drift:         actual.Sub(target),
		})
	}
	return out
}

// RiskFromAnswers reads the risk preference question. Anything unexpected is
// treated as Balanced.
func RiskFromAnswers(a Answers) RiskTolerance {
	switch a.String(QRiskChoice) {
	case "low":
		return Conservative
	case "high":
		return Aggressive
	}
	return Balanced
}

var (
	oppCostPoints = map[string]int{"none": 0, "heard": 10, "apply": 20, "expert": 30}
	lunchPoints   = map[string]int{"literal": 5, "fraud": 5, "expensive": 10, "cost": 20}
)

// ScoreLiteracy scores the financial-literacy answers on a 0-100 scale,
// starting from a base of 50.
func ScoreLiteracy(a Answers) int {
	score := 50 + oppCostPoints[a.String(QOppCost)] + lunchPoints[a.String(QNoFreeLunch)]
	return min(max(score, 0), 100)
}
