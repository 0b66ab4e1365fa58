package wealth

import "time"

// Answers maps questionnaire ids to the raw answer values, which are strings
// or numbers depending on the question.
type Answers map[string]any

// String returns the answer for id as a string, or "" if it is missing or
// not a string.
func (a Answers) String(id string) string {
	s, _ := a[id].(string)
	return s
}

// Clone copies the top level of the map.
func (a Answers) Clone() Answers {
	if a == nil {
		return nil
	}
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Profile is the user's financial profile as the remote store holds it.
type Profile struct {
	IdentityID     string        `json:"id"`
	Name           string        `json:"name"`
	FinancialScore int           `json:"financial_score"`
	RiskTolerance  RiskTolerance `json:"risk_tolerance"`
	Grid           Grid          `json:"wealth_grid"`
	Answers        Answers       `json:"answers"`
	Onboarded      bool          `json:"is_onboarded"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewUserProfile is the profile of an identity with no remote record yet.
func NewUserProfile(identityID, name string) Profile {
	return Profile{
		IdentityID:    identityID,
		Name:          name,
		RiskTolerance: Balanced,
		Grid:          DefaultGrid,
		Answers:       Answers{},
	}
}

// Clone returns a deep enough copy that callers cannot reach the original's
// answers map.
func (p Profile) Clone() Profile {
	p.Answers = p.Answers.Clone()
	return p
}
