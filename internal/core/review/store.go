// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import "context"

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// TitleExists reports whether the title is present.
	TitleExists(context context.Context, titleID int64) (bool, error)

	/*
		Create inserts a review and fills in ID, PubDate and Author.

		Returns:
		  - error: CONFLICT when the author already reviewed the title,
		    NOT_FOUND when the title vanished, or database errors
	*/
	Create(context context.Context, review *Review) error

	// List returns a title's reviews, newest first, with the total.
	List(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error)

	// Find returns review reviewID if it belongs to titleID. NOT_FOUND otherwise.
	Find(context context.Context, titleID, reviewID int64) (*Review, error)

	// Update rewrites text and score. pub_date is left untouched.
	Update(context context.Context, review *Review) error

	// Delete removes a review. Its comments follow by cascade.
	Delete(context context.Context, reviewID int64) error

	// Scores returns every score recorded for a title.
	Scores(context context.Context, titleID int64) ([]int, error)
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	// Create inserts a comment and fills in ID, PubDate and Author.
	Create(context context.Context, comment *Comment) error

	// List returns a review's comments, newest first, with the total.
	List(context context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error)

	// Find returns comment commentID if it belongs to reviewID. NOT_FOUND otherwise.
	Find(context context.Context, reviewID, commentID int64) (*Comment, error)

	// Update rewrites the text.
	Update(context context.Context, comment *Comment) error

	// Delete removes a comment.
	Delete(context context.Context, commentID int64) error
}
