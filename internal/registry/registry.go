package registry

import (
	"fmt"
	"sort"

	"newsengine/internal/config"
	"newsengine/internal/domain"
)

// Registry is the immutable mapping from categories to their sources,
// built once from configuration and injected where needed. It is never
// mutated after construction.
type Registry struct {
	byCategory map[domain.Category][]domain.Source
	bySource   map[string]domain.Source
	categories []domain.Category
}

// New validates the configured categories and builds the registry. A
// category with zero sources or a source claimed by two categories is a
// ConfigurationError.
func New(categories []config.CategoryConfig) (*Registry, error) {
	if len(categories) == 0 {
		return nil, &domain.ConfigurationError{Reason: "no categories configured"}
	}

	r := &Registry{
		byCategory: make(map[domain.Category][]domain.Source, len(categories)),
		bySource:   map[string]domain.Source{},
	}

	for _, cat := range categories {
		name := domain.Category(cat.Name)
		if len(cat.Sources) == 0 {
			return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("category %s has no sources", cat.Name)}
		}
		if _, ok := r.byCategory[name]; ok {
			return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("category %s declared twice", cat.Name)}
		}

		sources := make([]domain.Source, 0, len(cat.Sources))
		for _, src := range cat.Sources {
			if src.Name == "" || src.URL == "" {
				return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("category %s has a source without name or url", cat.Name)}
			}
			if owner, ok := r.bySource[src.Name]; ok {
				return nil, &domain.ConfigurationError{
					Reason: fmt.Sprintf("source %s belongs to both %s and %s", src.Name, owner.Category, cat.Name),
				}
			}

			source := domain.Source{Name: src.Name, FeedURL: src.URL, Category: name}
			r.bySource[src.Name] = source
			sources = append(sources, source)
		}

		r.byCategory[name] = sources
		r.categories = append(r.categories, name)
	}

	sort.Slice(r.categories, func(i, j int) bool { return r.categories[i] < r.categories[j] })
	return r, nil
}

// Categories lists every configured category in stable order.
func (r *Registry) Categories() []domain.Category {
	out := make([]domain.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Sources returns the source list owned by a category.
func (r *Registry) Sources(cat domain.Category) ([]domain.Source, error) {
	sources, ok := r.byCategory[cat]
	if !ok {
		return nil, fmt.Errorf("category %s is not registered", cat)
	}

	out := make([]domain.Source, len(sources))
	copy(out, sources)
	return out, nil
}

// CategoryOf resolves the category that owns a source name.
func (r *Registry) CategoryOf(sourceName string) (domain.Category, bool) {
	src, ok := r.bySource[sourceName]
	if !ok {
		return "", false
	}
	return src.Category, true
}
