package tokens

// TokenStats holds before/after token statistics.
type TokenStats struct {
	Before int `json:"before"`
	After  int `json:"after"`
}

// Saved returns the number of tokens saved. Negative means the text grew.
func (s TokenStats) Saved() int {
	return s.Before - s.After
}

// PercentReduction returns the percentage reduction relative to Before.
func (s TokenStats) PercentReduction() float64 {
	if s.Before == 0 {
		return 0
	}
	return float64(s.Saved()) / float64(s.Before) * 100
}

// Direction describes the change as "savings", "increase" or "unchanged".
func (s TokenStats) Direction() string {
	switch {
	case s.Saved() > 0:
		return "savings"
	case s.Saved() < 0:
		return "increase"
	default:
		return "unchanged"
	}
}
