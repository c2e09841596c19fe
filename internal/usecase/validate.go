package usecase

import (
	"newsengine/internal/domain"
	"newsengine/internal/registry"
)

// ValidationResult splits a batch into candidates whose category matches
// the registry and candidates rejected for category mismatch. Rejection
// is never silent recategorization; rejected counts are reported apart
// from duplicates.
type ValidationResult struct {
	Accepted []domain.Candidate
	Rejected int
}

// ValidateCategories confirms each candidate's category against the
// category its source belongs to in the registry. A source unknown to the
// registry is also a mismatch: nothing outside the registry may write
// into the corpus.
func ValidateCategories(candidates []domain.Candidate, reg *registry.Registry) ValidationResult {
	var result ValidationResult

	for _, cand := range candidates {
		owner, ok := reg.CategoryOf(cand.Source.Name)
		if !ok || owner != cand.Category {
			result.Rejected++
			continue
		}
		result.Accepted = append(result.Accepted, cand)
	}

	return result
}
