// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides in-memory doubles of the auth contracts for tests.
package authtest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/users/auth"
)

// MemoryUsers is an in-memory [auth.UserRepository] enforcing the same
// uniqueness rules as users.account. It is safe for concurrent use.
type MemoryUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]auth.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{rows: make(map[int64]auth.User)}
}

func (repository *MemoryUsers) find(match func(auth.User) bool) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	for _, row := range repository.rows {
		if match(row) {
			user := row
			return &user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *MemoryUsers) FindByID(_ context.Context, id int64) (*auth.User, error) {
	return repository.find(func(row auth.User) bool { return row.ID == id })
}

func (repository *MemoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return repository.find(func(row auth.User) bool { return row.Username == username })
}

func (repository *MemoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return repository.find(func(row auth.User) bool { return row.Email == email })
}

func (repository *MemoryUsers) taken(user *auth.User) bool {
	for _, row := range repository.rows {
		if row.ID != user.ID && (row.Username == user.Username || row.Email == user.Email) {
			return true
		}
	}
	return false
}

func (repository *MemoryUsers) Create(_ context.Context, user *auth.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.taken(user) {
		return apperr.Conflict("User already exists")
	}
	repository.nextID++
	user.ID = repository.nextID
	user.DateJoined = time.Now()
	repository.rows[user.ID] = *user
	return nil
}

func (repository *MemoryUsers) Update(_ context.Context, user *auth.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, ok := repository.rows[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	if repository.taken(user) {
		return apperr.Conflict("User already exists")
	}
	repository.rows[user.ID] = *user
	return nil
}

func (repository *MemoryUsers) Delete(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, ok := repository.rows[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repository.rows, id)
	return nil
}

func (repository *MemoryUsers) List(_ context.Context, filter auth.UserFilter, limit, offset int) ([]*auth.User, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	var matched []*auth.User
	for id := int64(1); id <= repository.nextID; id++ {
		row, ok := repository.rows[id]
		if !ok || !strings.Contains(strings.ToLower(row.Username), strings.ToLower(filter.Search)) {
			continue
		}
		user := row
		matched = append(matched, &user)
	}
	total := len(matched)
	if offset >= total {
		return []*auth.User{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

// Seed inserts user as-is and returns it with its assigned ID.
func (repository *MemoryUsers) Seed(user auth.User) *auth.User {
	if err := repository.Create(context.Background(), &user); err != nil {
		panic(err)
	}
	return &user
}

// Count returns the number of stored accounts.
func (repository *MemoryUsers) Count() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.rows)
}
