package services

import (
	"github.com/custodia-labs/trove/internal/core/domain"
	"github.com/custodia-labs/trove/internal/logger"
)

// ResolveReport summarises one resolution pass.
type ResolveReport struct {
	// Entities is the number of entities visited.
	Entities int

	// Relations is the number of relation references examined.
	Relations int

	// Resolved is the number of references now pointing at a live entity.
	Resolved int

	// Unresolved lists references whose target GUID is not in the collection.
	Unresolved []domain.UnresolvedRef
}

// Resolver replaces raw GUID references with direct entity references.
type Resolver struct{}

// NewResolver creates a resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve visits every entity once and points each relation at its target.
// Targets are looked up from the raw GUID on every pass, so running Resolve
// again over the same collection produces the same state and report.
// Missing targets are left unresolved and reported, never returned as errors.
func (r *Resolver) Resolve(c *domain.Collection) ResolveReport {
	var report ResolveReport

	c.Each(func(e *domain.Entity) bool {
		report.Entities++
		for i := range e.Relations {
			ref := &e.Relations[i].Ref
			report.Relations++

			target, ok := c.Lookup(ref.GUID)
			if !ok {
				ref.Target = nil
				report.Unresolved = append(report.Unresolved, domain.UnresolvedRef{
					From:     e.GUID,
					Relation: e.Relations[i].Name,
					GUID:     ref.GUID,
				})
				continue
			}
			ref.Target = target
			report.Resolved++
		}
		return true
	})

	for _, u := range report.Unresolved {
		logger.Warn("Unresolved relation %s.%s -> %s", u.From, u.Relation, u.GUID)
	}
	return report
}
