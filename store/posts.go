package store

import (
	"context"

	"github.com/goliatone/go-social-feed/model"
	"github.com/uptrace/bun"
)

// CreatePost inserts a post, assigning an id and timestamp when missing.
func (s *Store) CreatePost(ctx context.Context, post *model.Post) (*model.Post, error) {
	if post.ID == "" {
		post.ID = NewID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = model.Now()
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, Translate(err, "create post")
	}
	return created, nil
}

// FindPostsByIDs loads posts by id. Ids without a row are absent from the map.
func (s *Store) FindPostsByIDs(ctx context.Context, ids []string) (map[string]model.Post, error) {
	found := make(map[string]model.Post, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var posts []model.Post
	err := s.db.NewSelect().
		Model(&posts).
		Where("p.id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, Translate(err, "load posts")
	}

	for _, p := range posts {
		found[p.ID] = p
	}
	return found, nil
}

// ExistingPostIDs reports which of ids still have a row. Only the id column is read.
func (s *Store) ExistingPostIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	live := make(map[string]struct{}, len(ids))
	if len(ids) == 0 {
		return live, nil
	}

	var found []string
	err := s.db.NewSelect().
		Model((*model.Post)(nil)).
		Column("p.id").
		Where("p.id IN (?)", bun.In(ids)).
		Scan(ctx, &found)
	if err != nil {
		return nil, Translate(err, "check posts")
	}

	for _, id := range found {
		live[id] = struct{}{}
	}
	return live, nil
}

// ListFeed returns the newest posts authored by the viewer or anyone the viewer follows,
// strictly older than before (epoch ms) when it is set.
func (s *Store) ListFeed(ctx context.Context, viewerID string, before *int64, limit int) ([]model.Post, error) {
	posts := make([]model.Post, 0, limit)

	q := s.db.NewSelect().
		Model(&posts).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("p.user_id = ?", viewerID).
				WhereOr("EXISTS (SELECT 1 FROM follows AS f WHERE f.follower_id = ? AND f.following_id = p.user_id)", viewerID)
		})
	if before != nil {
		q = q.Where("p.created_at < ?", model.FromScore(*before))
	}

	err := q.OrderExpr("p.created_at DESC, p.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, Translate(err, "list feed")
	}
	return posts, nil
}

// CountPostsByUser counts the posts a user authored.
func (s *Store) CountPostsByUser(ctx context.Context, userID string) (int, error) {
	n, err := s.posts.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.user_id = ?", userID)
	})
	if err != nil {
		return 0, Translate(err, "count posts")
	}
	return n, nil
}
