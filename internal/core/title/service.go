// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avpech/yamdb-final/internal/core/taxonomy"
	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/validate"
	"github.com/avpech/yamdb-final/pkg/pagination"
	"github.com/avpech/yamdb-final/pkg/pointer"
	"github.com/avpech/yamdb-final/pkg/slice"
)

// TaxonomyResolver turns category and genre slugs into stored entries.
type TaxonomyResolver interface {
	FindBySlugs(context context.Context, kind taxonomy.Kind, slugs []string) ([]*taxonomy.Taxonomy, error)
}

// Service implements the title catalog rules.
type Service struct {
	repository Repository
	taxonomies TaxonomyResolver
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new title [Service].
func NewService(repo Repository, taxonomies TaxonomyResolver, logger *slog.Logger) *Service {
	return &Service{
		repository: repo,
		taxonomies: taxonomies,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock returns a copy of the service reading the current year from now.
func (service *Service) WithClock(now func() time.Time) *Service {
	clone := *service
	clone.now = now
	return &clone
}

// # Reads

// List returns one filtered page of titles. Open to everyone.
func (service *Service) List(context context.Context, actor access.Actor, filter Filter, page pagination.Params) ([]*Title, int, error) {
	if err := access.Check(actor, access.List, access.Title, 0); err != nil {
		return nil, 0, err
	}
	return service.repository.List(context, filter, page.Limit, page.Offset())
}

// Get returns one title with its live rating. Open to everyone.
func (service *Service) Get(context context.Context, actor access.Actor, id int64) (*Title, error) {
	if err := access.Check(actor, access.Retrieve, access.Title, 0); err != nil {
		return nil, err
	}
	return service.repository.FindByID(context, id)
}

// # Writes

/*
Create adds a title. Admin only.

Description: Category and genres arrive as slugs; an unknown slug is a
validation error on the corresponding field, never a silent drop.

Parameters:
  - context: context.Context
  - actor: access.Actor
  - input: CreateInput

Returns:
  - *Title: The stored title, rating null
  - error: VALIDATION_ERROR, UNAUTHORIZED or FORBIDDEN
*/
func (service *Service) Create(context context.Context, actor access.Actor, input CreateInput) (*Title, error) {
	if err := access.Check(actor, access.Create, access.Title, 0); err != nil {
		return nil, err
	}

	record := &Record{
		Name:          strings.TrimSpace(input.Name),
		Year:          input.Year,
		Description:   input.Description,
		ReplaceGenres: true,
	}

	validator := &validate.Validator{}
	service.checkFields(validator, record)

	// ── Resolve relations ─────────────────────────────────────────────────
	categoryID, err := service.resolveCategory(context, validator, input.Category)
	if err != nil {
		return nil, err
	}
	record.CategoryID = categoryID

	record.GenreIDs, err = service.resolveGenres(context, validator, input.Genres)
	if err != nil {
		return nil, err
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── Persist ───────────────────────────────────────────────────────────
	id, err := service.repository.Create(context, record)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "title_created",
		slog.Int64("title_id", id),
		slog.Int64("by_user_id", actor.UserID),
	)
	return service.repository.FindByID(context, id)
}

// Update applies a partial change. The genre set, when given, replaces the old one.
func (service *Service) Update(context context.Context, actor access.Actor, id int64, patch Patch) (*Title, error) {
	if err := access.Check(actor, access.PartialUpdate, access.Title, 0); err != nil {
		return nil, err
	}

	current, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	record := &Record{
		Name:        strings.TrimSpace(pointer.Fallback(patch.Name, current.Name)),
		Year:        pointer.Fallback(patch.Year, current.Year),
		Description: current.Description,
	}
	if current.Category != nil {
		record.CategoryID = &current.Category.ID
	}
	if patch.Description != nil {
		record.Description = patch.Description
	}

	validator := &validate.Validator{}
	service.checkFields(validator, record)

	if patch.Category != nil {
		record.CategoryID, err = service.resolveCategory(context, validator, *patch.Category)
		if err != nil {
			return nil, err
		}
	}
	if patch.Genres != nil {
		record.ReplaceGenres = true
		record.GenreIDs, err = service.resolveGenres(context, validator, *patch.Genres)
		if err != nil {
			return nil, err
		}
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, id, record); err != nil {
		return nil, err
	}
	return service.repository.FindByID(context, id)
}

// Delete removes a title together with its reviews and their comments. Admin only.
func (service *Service) Delete(context context.Context, actor access.Actor, id int64) error {
	if err := access.Check(actor, access.Destroy, access.Title, 0); err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "title_deleted",
		slog.Int64("title_id", id),
		slog.Int64("by_user_id", actor.UserID),
	)
	return nil
}

// # Helpers

func (service *Service) checkFields(validator *validate.Validator, record *Record) {
	validator.Required(FieldName, record.Name).MaxLen(FieldName, record.Name, NameMaxLen)
	validator.Custom(FieldYear, record.Year > service.now().Year(), "Year cannot be later than the current year")
	if record.Description != nil {
		validator.MaxLen(FieldDescription, *record.Description, DescriptionMaxLen)
	}
}

// resolveCategory maps a slug to an ID. An empty slug means no category.
func (service *Service) resolveCategory(context context.Context, validator *validate.Validator, slug string) (*int64, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}

	found, err := service.taxonomies.FindBySlugs(context, taxonomy.Category, []string{slug})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		validator.Custom(FieldCategory, true, fmt.Sprintf("Unknown category %q", slug))
		return nil, nil
	}
	return &found[0].ID, nil
}

// resolveGenres maps slugs to IDs, reporting every unknown slug.
func (service *Service) resolveGenres(context context.Context, validator *validate.Validator, slugs []string) ([]int64, error) {
	wanted := slice.Unique(slice.Filter(slice.Map(slugs, strings.TrimSpace), func(slug string) bool {
		return slug != ""
	}))
	if len(wanted) == 0 {
		return []int64{}, nil
	}

	found, err := service.taxonomies.FindBySlugs(context, taxonomy.Genre, wanted)
	if err != nil {
		return nil, err
	}

	ids := slice.Map(found, func(genre *taxonomy.Taxonomy) int64 { return genre.ID })
	known := make(map[string]bool, len(found))
	for _, genre := range found {
		known[genre.Slug] = true
	}
	for _, slug := range wanted {
		validator.Custom(FieldGenre, !known[slug], fmt.Sprintf("Unknown genre %q", slug))
	}
	return ids, nil
}
