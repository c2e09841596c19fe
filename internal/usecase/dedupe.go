package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"newsengine/internal/domain"
)

// CorpusLookup is the read side of the corpus used for URL dedup.
type CorpusLookup interface {
	FindByURL(ctx context.Context, url string) (*domain.Article, error)
}

// DedupeResult reports what the pass kept and dropped.
type DedupeResult struct {
	Accepted     []domain.Candidate
	TotalFetched int
	Duplicates   int
}

// Dedupe filters a candidate batch against the existing corpus and
// against itself. Exact URL match is the primary key: a URL already in
// the corpus, or seen earlier in the batch, is a duplicate. A secondary
// pass treats candidates whose normalized titles match exactly as the
// same story republished under a different URL, keeping the earliest
// published one. Both passes are deterministic over fetch order.
func Dedupe(ctx context.Context, candidates []domain.Candidate, corpus CorpusLookup) (DedupeResult, error) {
	result := DedupeResult{TotalFetched: len(candidates)}

	seenURL := map[string]struct{}{}
	byTitle := map[string]int{} // normalized title -> index into result.Accepted

	for _, cand := range candidates {
		if _, ok := seenURL[cand.Link]; ok {
			result.Duplicates++
			continue
		}
		seenURL[cand.Link] = struct{}{}

		existing, err := corpus.FindByURL(ctx, cand.Link)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return DedupeResult{}, fmt.Errorf("lookup %s: %w", cand.Link, err)
		}
		if existing != nil {
			result.Duplicates++
			continue
		}

		title := normalizeTitle(cand.Title)
		if title != "" {
			if idx, ok := byTitle[title]; ok {
				// Same story under a different URL; the earliest published
				// candidate wins.
				if cand.PublishedAt.Before(result.Accepted[idx].PublishedAt) {
					result.Accepted[idx] = cand
				}
				result.Duplicates++
				continue
			}
			byTitle[title] = len(result.Accepted)
		}

		result.Accepted = append(result.Accepted, cand)
	}

	return result, nil
}

// normalizeTitle lowercases, strips punctuation and collapses whitespace
// so cosmetic differences do not defeat the title pass.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
