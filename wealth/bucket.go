package wealth

import (
	"fmt"
	"strings"
)

// Bucket is one of the four allocation categories. It tags ledger entries
// and names a target percentage in a Grid.
type Bucket string

const (
	Emergency  Bucket = "emergency"  // reserve for the unexpected
	Daily      Bucket = "daily"      // everyday spending
	Investment Bucket = "investment" // capital growth
	Growth     Bucket = "growth"     // self-development
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{Emergency, Daily, Investment, Growth}

func (b Bucket) Valid() bool {
	switch b {
	case Emergency, Daily, Investment, Growth:
		return true
	}
	return false
}

// ParseBucket accepts a bucket name in any case.
func ParseBucket(s string) (Bucket, error) {
	b := Bucket(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", fmt.Errorf("unknown bucket %q", s)
	}
	return b, nil
}

// Kind says whether an entry adds money to its bucket or takes it out.
type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown entry kind %q", s)
	}
	return k, nil
}

// RiskTolerance is the user's declared appetite for volatility.
type RiskTolerance string

const (
	Conservative RiskTolerance = "conservative"
	Balanced     RiskTolerance = "balanced"
	Aggressive   RiskTolerance = "aggressive"
)

func (r RiskTolerance) Valid() bool {
	switch r {
	case Conservative, Balanced, Aggressive:
		return true
	}
	return false
}
