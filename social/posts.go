package social

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-social-feed/internal/apperr"
	"github.com/goliatone/go-social-feed/model"
)

// MaxPostRunes bounds post content.
const MaxPostRunes = 2000

// CreatePostRequest publishes a post. Content is trimmed before validation.
type CreatePostRequest struct {
	UserID   string  `json:"userId"`
	Content  string  `json:"content"`
	ImageURL *string `json:"imageUrl"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.Content, validation.Required, validation.RuneLength(1, MaxPostRunes)),
		validation.Field(&r.ImageURL, validation.NilOrNotEmpty, is.URL),
	)
}

// CreatePost stores a post. Cached feeds pick it up once they expire.
func (s *Service) CreatePost(ctx context.Context, req CreatePostRequest) (model.FeedPost, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := req.Validate(); err != nil {
		return model.FeedPost{}, apperr.FromValidation(err)
	}

	post, err := s.store.CreatePost(ctx, &model.Post{
		UserID:   req.UserID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return model.FeedPost{}, err
	}
	return model.NewFeedPost(*post), nil
}
