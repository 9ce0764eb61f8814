// Package directory provides the legislator stores used to resolve name
// mentions: an in-memory list, a SQLite table, and wrappers that cache or
// throttle lookups.
package directory

import (
	"context"

	"github.com/ppiankov/legisref/internal/model"
)

// Memory answers lookups from a fixed list of legislators
type Memory struct {
	legislators []model.Legislator
}

// NewMemory creates a directory over legislators. The slice is copied.
func NewMemory(legislators []model.Legislator) *Memory {
	copied := make([]model.Legislator, len(legislators))
	copy(copied, legislators)
	return &Memory{legislators: copied}
}

// Find returns every legislator matching filter, in list order
func (m *Memory) Find(ctx context.Context, filter model.Filter) ([]model.Legislator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches := []model.Legislator{}
	for _, l := range m.legislators {
		if filter.Matches(l) {
			matches = append(matches, l)
		}
	}
	return matches, nil
}

// All returns a copy of every record
func (m *Memory) All() []model.Legislator {
	all := make([]model.Legislator, len(m.legislators))
	copy(all, m.legislators)
	return all
}

// Len returns the number of records
func (m *Memory) Len() int {
	return len(m.legislators)
}
