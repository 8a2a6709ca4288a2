package store

import (
	"context"

	"github.com/goliatone/go-social-feed/model"
)

// CommentCursor is the keyset position of the last comment on a page.
type CommentCursor struct {
	Score int64
	ID    string
}

// InsertComment stores a comment, assigning an id and timestamp when missing.
func (s *Store) InsertComment(ctx context.Context, c *model.Comment) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = model.Now()
	}

	if _, err := s.db.NewInsert().Model(c).Exec(ctx); err != nil {
		return Translate(err, "create comment")
	}
	return nil
}

// ListComments returns comments of a post ordered by (created_at desc, id desc),
// strictly after the cursor position when one is given.
func (s *Store) ListComments(ctx context.Context, postID string, cursor *CommentCursor, limit int) ([]model.Comment, error) {
	comments := make([]model.Comment, 0, limit)

	q := s.db.NewSelect().
		Model(&comments).
		Where("c.post_id = ?", postID)
	if cursor != nil {
		at := model.FromScore(cursor.Score)
		q = q.Where("(c.created_at < ? OR (c.created_at = ? AND c.id < ?))", at, at, cursor.ID)
	}

	err := q.OrderExpr("c.created_at DESC, c.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, Translate(err, "list comments")
	}
	return comments, nil
}
