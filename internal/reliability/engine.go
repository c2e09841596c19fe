package reliability

import "newsengine/internal/domain"

// User-facing verdict labels.
const (
	LabelNotVerifiable      = "not verifiable with internal sources"
	LabelPendingReview      = "pending deeper review"
	LabelHighRisk           = "possible hoax / high risk"
	LabelCorroborated       = "corroborated"
	LabelWeaklyCorroborated = "weakly corroborated"
	LabelPossibleHoax       = "possible hoax"
)

// Thresholds are the numeric cut points of the verdict policy. They are
// configuration, not constants: the hoax conjunction values were derived
// from observed behavior and may need tuning per deployment.
type Thresholds struct {
	HoaxTraceabilityMax int
	HoaxClickbaitMin    int
	CorroboratedMin     int
	WeakMin             int
}

// DefaultThresholds returns the policy in production use.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HoaxTraceabilityMax: 20,
		HoaxClickbaitMin:    60,
		CorroboratedMin:     70,
		WeakMin:             40,
	}
}

// Engine derives a verdict from an assessment. It is a pure function of
// its inputs: no state, no side effects.
type Engine struct {
	rules []rule
}

type rule struct {
	name    string
	matches func(domain.Assessment) bool
	verdict func(domain.Assessment) domain.Verdict
}

// NewEngine builds the ordered rule list. Evaluation is first-match-wins;
// the order below is the whole policy:
//
//  1. An undetermined factual basis overrides every score.
//  2. Escalation routes the case to review instead of any blunt label,
//     even when the hoax conjunction holds.
//  3. The strict low-traceability/high-clickbait conjunction.
//  4. Reliability bands over the aggregate score.
func NewEngine(t Thresholds) *Engine {
	return &Engine{rules: []rule{
		{
			name: "no_determinable",
			matches: func(a domain.Assessment) bool {
				return a.FactualityStatus == domain.FactualityUndetermined
			},
			verdict: func(a domain.Assessment) domain.Verdict {
				return domain.Verdict{Label: LabelNotVerifiable, Escalated: a.ShouldEscalate}
			},
		},
		{
			name: "escalation",
			matches: func(a domain.Assessment) bool {
				return a.ShouldEscalate
			},
			verdict: func(domain.Assessment) domain.Verdict {
				return domain.Verdict{Label: LabelPendingReview, Escalated: true}
			},
		},
		{
			name: "hoax_conjunction",
			matches: func(a domain.Assessment) bool {
				return a.TraceabilityScore <= t.HoaxTraceabilityMax &&
					a.ClickbaitScore >= t.HoaxClickbaitMin
			},
			verdict: func(domain.Assessment) domain.Verdict {
				return domain.Verdict{Label: LabelHighRisk}
			},
		},
		{
			name: "corroborated",
			matches: func(a domain.Assessment) bool {
				return a.Score >= t.CorroboratedMin
			},
			verdict: func(domain.Assessment) domain.Verdict {
				return domain.Verdict{Label: LabelCorroborated}
			},
		},
		{
			name: "weakly_corroborated",
			matches: func(a domain.Assessment) bool {
				return a.Score >= t.WeakMin
			},
			verdict: func(domain.Assessment) domain.Verdict {
				return domain.Verdict{Label: LabelWeaklyCorroborated}
			},
		},
		{
			name:    "fallback",
			matches: func(domain.Assessment) bool { return true },
			verdict: func(domain.Assessment) domain.Verdict {
				return domain.Verdict{Label: LabelPossibleHoax}
			},
		},
	}}
}

// Evaluate validates score ranges and walks the rule list.
func (e *Engine) Evaluate(a domain.Assessment) (domain.Verdict, error) {
	if err := validateRanges(a); err != nil {
		return domain.Verdict{}, err
	}

	for _, r := range e.rules {
		if r.matches(a) {
			return r.verdict(a), nil
		}
	}

	// Unreachable: the fallback rule always matches.
	return domain.Verdict{Label: LabelPossibleHoax}, nil
}

func validateRanges(a domain.Assessment) error {
	checks := []struct {
		field string
		value int
	}{
		{"score", a.Score},
		{"biasScore", a.BiasScore},
		{"traceabilityScore", a.TraceabilityScore},
		{"clickbaitScore", a.ClickbaitScore},
	}

	for _, c := range checks {
		if c.value < 0 || c.value > 100 {
			return &domain.ScoreRangeError{Field: c.field, Value: c.value}
		}
	}

	return nil
}
