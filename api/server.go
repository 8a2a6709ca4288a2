// Package api exposes the feed and social operations over HTTP with echo.
//
// Every error leaves through a single handler that maps its category to a status and
// renders {ok:false, error, code, requestId}. Handlers return categorized errors and never
// write error bodies themselves.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goliatone/go-social-feed/feed"
	"github.com/goliatone/go-social-feed/model"
	"github.com/goliatone/go-social-feed/social"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// FeedReader serves feed pages.
type FeedReader interface {
	GetFeed(ctx context.Context, req feed.Request) (feed.Page, error)
}

// Social is the set of operations behind the social endpoints.
type Social interface {
	Like(ctx context.Context, req social.LikeRequest) (social.LikeResult, error)
	Unlike(ctx context.Context, req social.LikeRequest) (social.LikeResult, error)
	Follow(ctx context.Context, req social.FollowRequest) (social.FollowResult, error)
	Unfollow(ctx context.Context, req social.FollowRequest) (social.FollowResult, error)
	CreateComment(ctx context.Context, req social.CreateCommentRequest) (social.CommentResult, error)
	ListComments(ctx context.Context, req social.ListCommentsRequest) (social.CommentPage, error)
	CreatePost(ctx context.Context, req social.CreatePostRequest) (model.FeedPost, error)
	CreateUser(ctx context.Context, req social.CreateUserRequest) (model.PublicUser, error)
	Suggestions(ctx context.Context, viewerID string) ([]model.UserSuggestion, error)
	Profile(ctx context.Context, userID string) (social.Profile, error)
}

// Pinger reports the health of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config tunes the HTTP surface.
type Config struct {
	// RateLimit is requests per second per client IP. Zero disables the limiter.
	RateLimit float64
	RateBurst int
}

// Server is the HTTP API.
type Server struct {
	echo   *echo.Echo
	feed   FeedReader
	social Social
	db     Pinger
	cache  Pinger
	logger zerolog.Logger
}

// NewServer builds the echo instance with middleware and routes. cache may be nil.
func NewServer(cfg Config, feedReader FeedReader, svc Social, db, cachePinger Pinger, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		feed:   feedReader,
		social: svc,
		db:     db,
		cache:  cachePinger,
		logger: logger,
	}

	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Secure())
	if cfg.RateLimit > 0 {
		e.Use(rateLimiter(cfg))
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.health)

	api := s.echo.Group("/api")
	api.GET("/feed", s.getFeed)

	api.POST("/posts", s.createPost)
	api.POST("/posts/:postId/like", s.like)
	api.POST("/posts/:postId/unlike", s.unlike)
	api.POST("/posts/:postId/comments", s.createComment)
	api.GET("/posts/:postId/comments", s.listComments)

	api.POST("/users", s.createUser)
	api.GET("/users", s.suggestions)
	api.POST("/users/follow", s.follow)
	api.POST("/users/unfollow", s.unfollow)
	api.GET("/users/:userId/profile", s.profile)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("http server listening")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func rateLimiter(cfg Config) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RateLimit),
			Burst:     cfg.RateBurst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}

func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.Info()
			if v.Error != nil {
				event = logger.Warn().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
