// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// Every list endpoint reads ?page=&limit= and answers with a [Meta] block
// next to its data.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the page size when none is requested.
	DefaultLimit = 20
	// MaxLimit caps the page size.
	MaxLimit = 100
	// DefaultPage is the first page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit of a list request.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET for the page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block of a list response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta derives TotalPages from the total count and page size.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return meta
}

// FromRequest parses "page" and "limit" from the request's query string.
func FromRequest(request *http.Request) Params {
	return FromValues(request.URL.Query())
}

/*
FromValues parses "page" and "limit" from query values.

Malformed or non-positive values fall back to the defaults; a limit above
[MaxLimit] is capped to it.
*/
func FromValues(values url.Values) Params {
	params := Params{
		Page:  positive(values.Get("page"), DefaultPage),
		Limit: positive(values.Get("limit"), DefaultLimit),
	}
	params.Limit = min(params.Limit, MaxLimit)
	return params
}

func positive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
