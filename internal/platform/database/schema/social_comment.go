// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialCommentTable represents the 'social.comment' table
type SocialCommentTable struct {
	Table    string
	ID       string
	AuthorID string
	ReviewID string
	Text     string
	PubDate  string
}

// SocialComment is the schema definition for social.comment
var SocialComment = SocialCommentTable{
	Table:    "social.comment",
	ID:       "id",
	AuthorID: "author_id",
	ReviewID: "review_id",
	Text:     "text",
	PubDate:  "pub_date",
}

func (t SocialCommentTable) Columns() []string {
	return []string{t.ID, t.AuthorID, t.ReviewID, t.Text, t.PubDate}
}
