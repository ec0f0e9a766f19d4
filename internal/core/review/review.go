// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review implements reviews of titles and the comments attached to them.

# Invariants

  - An author reviews a title at most once. The unique index over
    (author_id, title_id) is the authority; the service never checks first and
    writes second.
  - A score is an integer between [MinScore] and [MaxScore].
  - pub_date is assigned by the database at insert and never rewritten.
  - A review is addressed by (title, review) and a comment by
    (title, review, comment); a mismatched parent is NOT_FOUND.

# Permissions

Any signed-in user may write. Updates and deletes pass for the author, and
for moderators and admins regardless of authorship.
*/
package review

import "time"

// Score bounds, inclusive.
const (
	MinScore = 1
	MaxScore = 10
)

// Field names used in validation details.
const (
	FieldText  = "text"
	FieldScore = "score"
)

// Review is one author's opinion of one title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// Comment is a reply attached to a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// CreateReviewInput carries a new review. The title comes from the route.
type CreateReviewInput struct {
	Text  string
	Score int
}

// ReviewPatch is a partial review update.
type ReviewPatch struct {
	Text  *string
	Score *int
}

// Mean returns the arithmetic mean of scores, or nil for an empty slice.
// A title without reviews has no rating, which is not the same as rating 0.
func Mean(scores []int) *float64 {
	if len(scores) == 0 {
		return nil
	}
	sum := 0
	for _, score := range scores {
		sum += score
	}
	mean := float64(sum) / float64(len(scores))
	return &mean
}
