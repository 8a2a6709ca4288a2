package social

import (
	"context"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-social-feed/cache"
	"github.com/goliatone/go-social-feed/internal/apperr"
	"github.com/goliatone/go-social-feed/model"
	"github.com/goliatone/go-social-feed/store"
)

// Comment listing bounds.
const (
	DefaultCommentLimit = 20
	MaxCommentLimit     = 50
	MaxCommentRunes     = 1000
)

// CreateCommentRequest adds a comment to a post. Text is trimmed before validation.
type CreateCommentRequest struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PostID, validation.Required),
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.Text, validation.Required, validation.RuneLength(1, MaxCommentRunes)),
	)
}

// CommentResult is the stored comment and the cached comment count after the write.
type CommentResult struct {
	Comment       model.CommentView `json:"comment"`
	CommentsCount cache.Count       `json:"commentsCount"`
}

// CreateComment stores a comment and bumps the cache-only comment counter.
func (s *Service) CreateComment(ctx context.Context, req CreateCommentRequest) (CommentResult, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := req.Validate(); err != nil {
		return CommentResult{}, apperr.FromValidation(err)
	}

	comment := &model.Comment{
		PostID: req.PostID,
		UserID: req.UserID,
		Text:   req.Text,
	}
	if err := s.store.InsertComment(ctx, comment); err != nil {
		return CommentResult{}, err
	}

	key := cache.CommentsCountKey(req.PostID)
	value, err := s.cache.Incr(ctx, key, s.ttls.CommentsCount)

	return CommentResult{
		Comment:       model.NewCommentView(*comment),
		CommentsCount: s.counted("incr", key, value, err),
	}, nil
}

// CommentCursor is the position of the last comment on a page.
type CommentCursor struct {
	CreatedAtScore int64  `json:"createdAtScore"`
	ID             string `json:"id"`
}

// String renders the cursor in its query form "<epoch-ms>_<commentId>".
func (c CommentCursor) String() string {
	return strconv.FormatInt(c.CreatedAtScore, 10) + "_" + c.ID
}

// ParseCommentCursor parses "<epoch-ms>_<commentId>". The id may itself contain
// underscores; the score ends at the first one.
func ParseCommentCursor(raw string) (*CommentCursor, error) {
	score, id, ok := strings.Cut(raw, "_")
	if !ok || id == "" {
		return nil, apperr.Validation("cursor must look like <epoch-ms>_<commentId>")
	}
	ms, err := strconv.ParseInt(score, 10, 64)
	if err != nil {
		return nil, apperr.Validation("cursor must start with an epoch-ms integer")
	}
	if !model.ValidScore(ms) {
		return nil, apperr.Validation("cursor is out of range")
	}
	return &CommentCursor{CreatedAtScore: ms, ID: id}, nil
}

// ListCommentsRequest pages through a post's comments, newest first.
type ListCommentsRequest struct {
	PostID string `json:"postId"`
	Limit  int    `json:"limit"`
	Cursor string `json:"cursor"`
}

func (r ListCommentsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PostID, validation.Required),
		validation.Field(&r.Limit, validation.Required, validation.Min(1), validation.Max(MaxCommentLimit)),
	)
}

// CommentPage is one page of comments.
type CommentPage struct {
	Items      []model.CommentView `json:"items"`
	NextCursor *CommentCursor      `json:"nextCursor"`
}

// ListComments returns up to Limit comments strictly after Cursor in
// (created_at desc, id desc) order.
func (s *Service) ListComments(ctx context.Context, req ListCommentsRequest) (CommentPage, error) {
	if err := req.Validate(); err != nil {
		return CommentPage{}, apperr.FromValidation(err)
	}

	var after *store.CommentCursor
	if req.Cursor != "" {
		cursor, err := ParseCommentCursor(req.Cursor)
		if err != nil {
			return CommentPage{}, err
		}
		after = &store.CommentCursor{Score: cursor.CreatedAtScore, ID: cursor.ID}
	}

	comments, err := s.store.ListComments(ctx, req.PostID, after, req.Limit)
	if err != nil {
		return CommentPage{}, err
	}

	page := CommentPage{Items: make([]model.CommentView, 0, len(comments))}
	for _, c := range comments {
		page.Items = append(page.Items, model.NewCommentView(c))
	}
	if n := len(page.Items); n > 0 {
		last := page.Items[n-1]
		page.NextCursor = &CommentCursor{CreatedAtScore: last.CreatedAtScore, ID: last.ID}
	}
	return page, nil
}
