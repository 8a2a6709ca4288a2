package social

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-social-feed/internal/apperr"
	"github.com/goliatone/go-social-feed/model"
)

// SuggestionLimit caps follow suggestions.
const SuggestionLimit = 10

// CreateUserRequest registers an account.
type CreateUserRequest struct {
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.RuneLength(3, 30)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
	)
}

// CreateUser stores a user. A taken username or email is a conflict.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (model.PublicUser, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		req.Email = &email
	}
	if err := req.Validate(); err != nil {
		return model.PublicUser{}, apperr.FromValidation(err)
	}

	user, err := s.store.CreateUser(ctx, &model.User{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return model.PublicUser{}, err
	}
	return model.NewPublicUser(*user), nil
}

// Suggestions lists users the viewer may follow.
func (s *Service) Suggestions(ctx context.Context, viewerID string) ([]model.UserSuggestion, error) {
	if strings.TrimSpace(viewerID) == "" {
		return nil, apperr.Validation("viewerId is required")
	}
	return s.store.Suggestions(ctx, viewerID, SuggestionLimit)
}
