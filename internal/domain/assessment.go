package domain

// FactualityStatus is the coarse upstream verdict on whether a factual
// basis could be established at all, independent of numeric scores.
type FactualityStatus string

const (
	FactualityVerified     FactualityStatus = "verified"
	FactualityPlausible    FactualityStatus = "plausible_but_unverified"
	FactualityUndetermined FactualityStatus = "no_determinable"
)

// Assessment carries the sub-scores produced by the external analysis
// collaborator. All numeric fields are 0-100. The engine combines them;
// it never computes them.
type Assessment struct {
	Score             int              `json:"score"`
	BiasScore         int              `json:"biasScore"`
	TraceabilityScore int              `json:"traceabilityScore"`
	ClickbaitScore    int              `json:"clickbaitScore"`
	FactualityStatus  FactualityStatus `json:"factualityStatus"`
	ShouldEscalate    bool             `json:"shouldEscalate"`
}

// Verdict is the user-facing label derived from an Assessment.
type Verdict struct {
	Label     string `json:"label"`
	Escalated bool   `json:"escalated"`
}
