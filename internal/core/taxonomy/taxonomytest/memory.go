// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package taxonomytest provides an in-memory [taxonomy.Repository] for tests.
package taxonomytest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/avpech/yamdb-final/internal/core/taxonomy"
	"github.com/avpech/yamdb-final/internal/platform/apperr"
)

// MemoryRepository keeps categories and genres in maps keyed by slug.
// It is safe for concurrent use.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[taxonomy.Kind]map[string]taxonomy.Taxonomy
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: map[taxonomy.Kind]map[string]taxonomy.Taxonomy{
		taxonomy.Category: {},
		taxonomy.Genre:    {},
	}}
}

// Seed stores an entry directly and returns it with its ID.
func (repository *MemoryRepository) Seed(kind taxonomy.Kind, name, slug string) *taxonomy.Taxonomy {
	entry := &taxonomy.Taxonomy{Name: name, Slug: slug}
	if err := repository.Create(context.Background(), kind, entry); err != nil {
		panic(err)
	}
	return entry
}

func (repository *MemoryRepository) sorted(kind taxonomy.Kind) []taxonomy.Taxonomy {
	entries := make([]taxonomy.Taxonomy, 0, len(repository.rows[kind]))
	for _, entry := range repository.rows[kind] {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name == entries[j].Name {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

func (repository *MemoryRepository) List(_ context.Context, kind taxonomy.Kind, search string, limit, offset int) ([]*taxonomy.Taxonomy, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matched := make([]*taxonomy.Taxonomy, 0)
	for _, entry := range repository.sorted(kind) {
		if search == "" || strings.Contains(strings.ToLower(entry.Name), strings.ToLower(search)) {
			entry := entry
			matched = append(matched, &entry)
		}
	}

	total := len(matched)
	if offset >= total {
		return []*taxonomy.Taxonomy{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (repository *MemoryRepository) FindBySlugs(_ context.Context, kind taxonomy.Kind, slugs []string) ([]*taxonomy.Taxonomy, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	found := make([]*taxonomy.Taxonomy, 0, len(slugs))
	for _, entry := range repository.sorted(kind) {
		for _, slug := range slugs {
			if entry.Slug == slug {
				entry := entry
				found = append(found, &entry)
				break
			}
		}
	}
	return found, nil
}

func (repository *MemoryRepository) Create(_ context.Context, kind taxonomy.Kind, entry *taxonomy.Taxonomy) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.rows[kind][entry.Slug]; taken {
		return apperr.Conflict(kind.Label() + " already exists")
	}
	repository.nextID++
	entry.ID = repository.nextID
	repository.rows[kind][entry.Slug] = *entry
	return nil
}

func (repository *MemoryRepository) DeleteBySlug(_ context.Context, kind taxonomy.Kind, slug string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.rows[kind][slug]; !ok {
		return apperr.NotFound(kind.Label())
	}
	delete(repository.rows[kind], slug)
	return nil
}
