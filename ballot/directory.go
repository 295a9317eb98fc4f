// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"sync"

	"github.com/aspc/vote/models"
)

// Directory resolves candidate IDs to candidates for the whole session.
// Entries are only ever added; merging an existing ID replaces it.
type Directory struct {
	mu   sync.RWMutex
	byID map[string]models.Candidate
}

func NewDirectory() *Directory {
	return &Directory{byID: make(map[string]models.Candidate)}
}

// Merge adds candidates without dropping existing entries
func (d *Directory) Merge(candidates ...models.Candidate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range candidates {
		d.byID[c.ID] = c
	}
}

func (d *Directory) Lookup(id string) (models.Candidate, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.byID[id]
	return c, ok
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}
