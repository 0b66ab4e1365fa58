package wealth

import (
	"errors"
	"fmt"
)

var ErrInvalidGrid = errors.New("invalid wealth grid")

// Grid is the target allocation: four whole percentages that sum to 100.
type Grid struct {
	Emergency  int `json:"emergency" yaml:"emergency"`
	Daily      int `json:"daily" yaml:"daily"`
	Investment int `json:"investment" yaml:"investment"`
	Growth     int `json:"growth" yaml:"growth"`
}

// DefaultGrid is the balanced split used when nothing better is known.
var DefaultGrid = Grid{Emergency: 20, Daily: 15, Investment: 50, Growth: 15}

func (g Grid) Percent(b Bucket) int {
	switch b {
	case Emergency:
		return g.Emergency
	case Daily:
		return g.Daily
	case Investment:
		return g.Investment
	case Growth:
		return g.Growth
	}
	return 0
}

func (g Grid) Sum() int {
	return g.Emergency + g.Daily + g.Investment + g.Growth
}

// Validate checks that no share is negative and the shares total 100.
func (g Grid) Validate() error {
	for _, b := range Buckets {
		if g.Percent(b) < 0 {
			return fmt.Errorf("%w: %s is negative (%d)", ErrInvalidGrid, b, g.Percent(b))
		}
	}
	if s := g.Sum(); s != 100 {
		return fmt.Errorf("%w: shares sum to %d, want 100", ErrInvalidGrid, s)
	}
	return nil
}

func (g Grid) String() string {
	return fmt.Sprintf("%d/%d/%d/%d", g.Emergency, g.Daily, g.Investment, g.Growth)
}
