// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialReviewTable represents the 'social.review' table
type SocialReviewTable struct {
	Table    string
	ID       string
	AuthorID string
	TitleID  string
	Text     string
	Score    string
	PubDate  string

	// AuthorTitleKey is the unique constraint allowing one review per author and title.
	AuthorTitleKey string
}

// SocialReview is the schema definition for social.review
var SocialReview = SocialReviewTable{
	Table:          "social.review",
	ID:             "id",
	AuthorID:       "author_id",
	TitleID:        "title_id",
	Text:           "text",
	Score:          "score",
	PubDate:        "pub_date",
	AuthorTitleKey: "review_author_title_key",
}

func (t SocialReviewTable) Columns() []string {
	return []string{t.ID, t.AuthorID, t.TitleID, t.Text, t.Score, t.PubDate}
}
