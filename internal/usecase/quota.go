package usecase

import "newsengine/internal/domain"

// lowDiversityRatio flags categories whose realized total cannot reach a
// healthy share of the requested page size.
const lowDiversityRatio = 0.8

// minPerSourceQuota guarantees even source-rich categories pull at least
// a couple of items per source.
const minPerSourceQuota = 2

// QuotaPlan is the capacity split for one category in one cycle.
type QuotaPlan struct {
	// PerSource is the uncapped quota passed to each fetch call: a source
	// may exceed its fair share when siblings under-deliver.
	PerSource int
	// Realized is the capped total used for capacity reporting only.
	Realized int
	// LowDiversity marks categories whose realized total falls below 80%
	// of the target page size.
	LowDiversity bool
}

// Allocate computes per-source quotas for a category. Pure over integers;
// a zero source count is invalid static setup.
func Allocate(sourceCount, targetPageSize int) (QuotaPlan, error) {
	if sourceCount <= 0 {
		return QuotaPlan{}, &domain.ConfigurationError{Reason: "quota allocation requires at least one source"}
	}

	perSource := (targetPageSize + sourceCount - 1) / sourceCount
	if perSource < minPerSourceQuota {
		perSource = minPerSourceQuota
	}

	realized := perSource * sourceCount
	if realized > targetPageSize {
		realized = targetPageSize
	}

	return QuotaPlan{
		PerSource:    perSource,
		Realized:     realized,
		LowDiversity: float64(realized) < lowDiversityRatio*float64(targetPageSize),
	}, nil
}
