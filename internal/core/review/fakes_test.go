// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avpech/yamdb-final/internal/core/review"
	"github.com/avpech/yamdb-final/internal/platform/apperr"
	"github.com/avpech/yamdb-final/internal/platform/database/schema"
	"github.com/avpech/yamdb-final/internal/platform/dberr"
)

// memoryStore backs both repositories and mimics the relational rules of
// social.review and social.comment: the (author, title) unique index and the
// cascade from review to comment.
type memoryStore struct {
	mu        sync.Mutex
	nextID    int64
	clock     time.Time
	titles    map[int64]bool
	usernames map[int64]string
	reviews   map[int64]review.Review
	comments  map[int64]review.Comment
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		clock:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		titles:    map[int64]bool{},
		usernames: map[int64]string{},
		reviews:   map[int64]review.Review{},
		comments:  map[int64]review.Comment{},
	}
}

// tick hands out strictly increasing publication dates.
func (store *memoryStore) tick() time.Time {
	store.clock = store.clock.Add(time.Minute)
	return store.clock
}

// reviewRepo and commentRepo expose the two repository contracts.
type reviewRepo struct{ *memoryStore }
type commentRepo struct{ *memoryStore }

func (repository reviewRepo) TitleExists(_ context.Context, titleID int64) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.titles[titleID], nil
}

func (repository reviewRepo) Create(_ context.Context, item *review.Review) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if !repository.titles[item.TitleID] {
		return apperr.NotFound("Title")
	}
	for _, existing := range repository.reviews {
		if existing.AuthorID == item.AuthorID && existing.TitleID == item.TitleID {
			return dberr.WrapWith(&pgconn.PgError{
				Code:           dberr.UniqueViolation,
				ConstraintName: schema.SocialReview.AuthorTitleKey,
			}, "Review", nil)
		}
	}

	repository.nextID++
	item.ID = repository.nextID
	item.PubDate = repository.tick()
	item.Author = repository.usernames[item.AuthorID]
	repository.reviews[item.ID] = *item
	return nil
}

func (repository reviewRepo) List(_ context.Context, titleID int64, limit, offset int) ([]*review.Review, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matched := make([]*review.Review, 0)
	for _, item := range repository.reviews {
		if item.TitleID == titleID {
			item := item
			matched = append(matched, &item)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.After(matched[j].PubDate) })

	total := len(matched)
	if offset >= total {
		return []*review.Review{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repository reviewRepo) Find(_ context.Context, titleID, reviewID int64) (*review.Review, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	item, ok := repository.reviews[reviewID]
	if !ok || item.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	return &item, nil
}

func (repository reviewRepo) Update(_ context.Context, item *review.Review) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.reviews[item.ID]
	if !ok {
		return apperr.NotFound("Review")
	}
	stored.Text = item.Text
	stored.Score = item.Score
	repository.reviews[item.ID] = stored
	return nil
}

func (repository reviewRepo) Delete(_ context.Context, reviewID int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.reviews[reviewID]; !ok {
		return apperr.NotFound("Review")
	}
	delete(repository.reviews, reviewID)
	for id, comment := range repository.comments {
		if comment.ReviewID == reviewID {
			delete(repository.comments, id)
		}
	}
	return nil
}

func (repository reviewRepo) Scores(_ context.Context, titleID int64) ([]int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	scores := make([]int, 0)
	for _, item := range repository.reviews {
		if item.TitleID == titleID {
			scores = append(scores, item.Score)
		}
	}
	return scores, nil
}

func (repository commentRepo) Create(_ context.Context, item *review.Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.reviews[item.ReviewID]; !ok {
		return apperr.NotFound("Review")
	}
	repository.nextID++
	item.ID = repository.nextID
	item.PubDate = repository.tick()
	item.Author = repository.usernames[item.AuthorID]
	repository.comments[item.ID] = *item
	return nil
}

func (repository commentRepo) List(_ context.Context, reviewID int64, limit, offset int) ([]*review.Comment, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matched := make([]*review.Comment, 0)
	for _, item := range repository.comments {
		if item.ReviewID == reviewID {
			item := item
			matched = append(matched, &item)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.After(matched[j].PubDate) })

	total := len(matched)
	if offset >= total {
		return []*review.Comment{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repository commentRepo) Find(_ context.Context, reviewID, commentID int64) (*review.Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	item, ok := repository.comments[commentID]
	if !ok || item.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	return &item, nil
}

func (repository commentRepo) Update(_ context.Context, item *review.Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.comments[item.ID]
	if !ok {
		return apperr.NotFound("Comment")
	}
	stored.Text = item.Text
	repository.comments[item.ID] = stored
	return nil
}

func (repository commentRepo) Delete(_ context.Context, commentID int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.comments[commentID]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(repository.comments, commentID)
	return nil
}

// commentCount counts comments still attached to reviewID.
func (store *memoryStore) commentCount(reviewID int64) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	count := 0
	for _, comment := range store.comments {
		if comment.ReviewID == reviewID {
			count++
		}
	}
	return count
}
