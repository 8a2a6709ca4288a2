package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goliatone/go-social-feed/feed"
	"github.com/goliatone/go-social-feed/internal/apperr"
	"github.com/goliatone/go-social-feed/social"
	"github.com/labstack/echo/v4"
)

// respond wraps a payload with ok:true.
func respond(c echo.Context, status int, payload map[string]any) error {
	body := map[string]any{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(status, body)
}

func (s *Server) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		return apperr.Internal(err, "database unavailable")
	}

	cacheStatus := "disabled"
	if s.cache != nil {
		cacheStatus = "up"
		if err := s.cache.Ping(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("cache ping failed")
			cacheStatus = "down"
		}
	}
	return respond(c, http.StatusOK, map[string]any{"database": "up", "cache": cacheStatus})
}

func (s *Server) getFeed(c echo.Context) error {
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}
	cursor, err := queryFeedCursor(c)
	if err != nil {
		return err
	}

	page, err := s.feed.GetFeed(c.Request().Context(), feed.Request{
		ViewerID: c.QueryParam("viewerId"),
		Limit:    limit,
		Cursor:   cursor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (s *Server) like(c echo.Context) error {
	return s.toggleLike(c, s.social.Like)
}

func (s *Server) unlike(c echo.Context) error {
	return s.toggleLike(c, s.social.Unlike)
}

func (s *Server) toggleLike(c echo.Context, op func(context.Context, social.LikeRequest) (social.LikeResult, error)) error {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := bind(c, &body); err != nil {
		return err
	}

	res, err := op(c.Request().Context(), social.LikeRequest{PostID: c.Param("postId"), UserID: body.UserID})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"status": res.Status, "likesCount": res.LikesCount})
}

func (s *Server) follow(c echo.Context) error {
	return s.toggleFollow(c, s.social.Follow)
}

func (s *Server) unfollow(c echo.Context) error {
	return s.toggleFollow(c, s.social.Unfollow)
}

func (s *Server) toggleFollow(c echo.Context, op func(context.Context, social.FollowRequest) (social.FollowResult, error)) error {
	var req social.FollowRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := op(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{
		"status":         res.Status,
		"followerId":     res.FollowerID,
		"followingId":    res.FollowingID,
		"followersCount": res.FollowersCount,
		"followingCount": res.FollowingCount,
	})
}

func (s *Server) createComment(c echo.Context) error {
	var body struct {
		UserID string `json:"userId"`
		Text   string `json:"text"`
	}
	if err := bind(c, &body); err != nil {
		return err
	}

	res, err := s.social.CreateComment(c.Request().Context(), social.CreateCommentRequest{
		PostID: c.Param("postId"),
		UserID: body.UserID,
		Text:   body.Text,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, map[string]any{"comment": res.Comment, "commentsCount": res.CommentsCount})
}

func (s *Server) listComments(c echo.Context) error {
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}

	page, err := s.social.ListComments(c.Request().Context(), social.ListCommentsRequest{
		PostID: c.Param("postId"),
		Limit:  limit,
		Cursor: c.QueryParam("cursor"),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"items": page.Items, "nextCursor": page.NextCursor})
}

func (s *Server) createPost(c echo.Context) error {
	var req social.CreatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := s.social.CreatePost(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, map[string]any{"post": post})
}

func (s *Server) createUser(c echo.Context) error {
	var req social.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := s.social.CreateUser(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, map[string]any{"user": user})
}

func (s *Server) suggestions(c echo.Context) error {
	users, err := s.social.Suggestions(c.Request().Context(), c.QueryParam("viewerId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) profile(c echo.Context) error {
	p, err := s.social.Profile(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"user": p.User, "stats": p.Stats})
}
