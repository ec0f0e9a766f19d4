// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/avpech/yamdb-final/internal/platform/access"
	"github.com/avpech/yamdb-final/internal/platform/validate"
	"github.com/avpech/yamdb-final/pkg/pagination"
	"github.com/avpech/yamdb-final/pkg/slug"
)

// CreateInput carries the fields of a new category or genre.
type CreateInput struct {
	Name string
	Slug string
}

// Service implements the catalog classification rules.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repository: repo, logger: logger}
}

// List returns one page of entries. Open to everyone, including anonymous callers.
func (service *Service) List(context context.Context, actor access.Actor, kind Kind, search string, page pagination.Params) ([]*Taxonomy, int, error) {
	if err := access.Check(actor, access.List, kind.Resource(), 0); err != nil {
		return nil, 0, err
	}
	return service.repository.List(context, kind, strings.TrimSpace(search), page.Limit, page.Offset())
}

/*
Create adds a category or genre. Admin only.

Description: A blank slug is derived from the name. The slug index is the
authority on uniqueness: a duplicate returns CONFLICT.

Parameters:
  - context: context.Context
  - actor: access.Actor
  - kind: Kind
  - input: CreateInput

Returns:
  - *Taxonomy: The stored entry
  - error: VALIDATION_ERROR, CONFLICT, UNAUTHORIZED or FORBIDDEN
*/
func (service *Service) Create(context context.Context, actor access.Actor, kind Kind, input CreateInput) (*Taxonomy, error) {
	if err := access.Check(actor, access.Create, kind.Resource(), 0); err != nil {
		return nil, err
	}

	entry := &Taxonomy{
		Name: strings.TrimSpace(input.Name),
		Slug: strings.TrimSpace(input.Slug),
	}
	if entry.Slug == "" {
		entry.Slug = DeriveSlug(entry.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, entry.Name).MaxLen(FieldName, entry.Name, NameMaxLen)
	validator.Required(FieldSlug, entry.Slug).MaxLen(FieldSlug, entry.Slug, SlugMaxLen)
	if entry.Slug != "" {
		validator.Slug(FieldSlug, entry.Slug)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, kind, entry); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "taxonomy_created",
		slog.String("kind", string(kind)),
		slog.String("slug", entry.Slug),
		slog.Int64("by_user_id", actor.UserID),
	)
	return entry, nil
}

// Delete removes the entry addressed by slug. Admin only.
func (service *Service) Delete(context context.Context, actor access.Actor, kind Kind, slugValue string) error {
	if err := access.Check(actor, access.Destroy, kind.Resource(), 0); err != nil {
		return err
	}

	if err := service.repository.DeleteBySlug(context, kind, slugValue); err != nil {
		return err
	}

	service.logger.InfoContext(context, "taxonomy_deleted",
		slog.String("kind", string(kind)),
		slog.String("slug", slugValue),
		slog.Int64("by_user_id", actor.UserID),
	)
	return nil
}

// DeriveSlug builds a slug from a display name, cut to [SlugMaxLen].
func DeriveSlug(name string) string {
	return slug.Truncate(slug.From(name), SlugMaxLen)
}
