// Package feed implements the cache-aside feed read path with keyset pagination.
package feed

import (
	"context"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-social-feed/cache"
	"github.com/goliatone/go-social-feed/internal/apperr"
	"github.com/goliatone/go-social-feed/model"
	"github.com/rs/zerolog"
)

// Page size bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// Source tells where a page's membership came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceDB    Source = "db"
)

// PostReader is the relational side of the feed.
type PostReader interface {
	FindPostsByIDs(ctx context.Context, ids []string) (map[string]model.Post, error)
	ListFeed(ctx context.Context, viewerID string, before *int64, limit int) ([]model.Post, error)
}

// Request selects one page. Cursor is an exclusive epoch-ms upper bound; nil means the first page.
type Request struct {
	ViewerID string `json:"viewerId"`
	Limit    int    `json:"limit"`
	Cursor   *int64 `json:"cursor"`
}

// Validate checks the request before any store is touched.
func (r Request) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ViewerID, validation.Required),
		validation.Field(&r.Limit, validation.Required, validation.Min(1), validation.Max(MaxLimit)),
		validation.Field(&r.Cursor, validation.Min(int64(0)), validation.Max(model.MaxScore)),
	)
}

// Page is one slice of a viewer's feed, newest first.
type Page struct {
	Source     Source           `json:"source"`
	Items      []model.FeedPost `json:"items"`
	NextCursor *int64           `json:"nextCursor"`
}

func newPage(source Source, items []model.FeedPost) Page {
	page := Page{Source: source, Items: items}
	if n := len(items); n > 0 {
		next := items[n-1].CreatedAtScore
		page.NextCursor = &next
	}
	return page
}

// Reader serves feed pages from the ranked-set cache when it has entries and from the
// relational store otherwise, repopulating the cache after a store read.
type Reader struct {
	posts           PostReader
	ranked          cache.RankedSets
	ttl             time.Duration
	populateTimeout time.Duration
	synchronous     bool
	logger          zerolog.Logger
	pending         sync.WaitGroup
}

// Option configures a Reader.
type Option func(*Reader)

// WithTTL sets the expiration of a repopulated feed.
func WithTTL(ttl time.Duration) Option {
	return func(r *Reader) {
		r.ttl = ttl
	}
}

// WithLogger sets the logger used for best-effort cache failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// WithPopulateTimeout bounds a background repopulation.
func WithPopulateTimeout(d time.Duration) Option {
	return func(r *Reader) {
		r.populateTimeout = d
	}
}

// WithSynchronousPopulate repopulates before GetFeed returns.
func WithSynchronousPopulate() Option {
	return func(r *Reader) {
		r.synchronous = true
	}
}

// NewReader builds a Reader over posts and the ranked-set cache.
func NewReader(posts PostReader, ranked cache.RankedSets, opts ...Option) *Reader {
	r := &Reader{
		posts:           posts,
		ranked:          ranked,
		ttl:             cache.DefaultTTLs().Feed,
		populateTimeout: 2 * time.Second,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetFeed returns at most req.Limit posts visible to the viewer, newest first.
func (r *Reader) GetFeed(ctx context.Context, req Request) (Page, error) {
	if err := req.Validate(); err != nil {
		return Page{}, apperr.FromValidation(err)
	}

	ids := r.cachedIDs(ctx, req)
	if len(ids) > 0 {
		rows, err := r.posts.FindPostsByIDs(ctx, ids)
		if err != nil {
			return Page{}, err
		}

		items := make([]model.FeedPost, 0, len(ids))
		for _, id := range ids {
			if p, ok := rows[id]; ok {
				items = append(items, model.NewFeedPost(p))
			}
		}
		return newPage(SourceCache, items), nil
	}

	posts, err := r.posts.ListFeed(ctx, req.ViewerID, req.Cursor, req.Limit)
	if err != nil {
		return Page{}, err
	}

	items := make([]model.FeedPost, len(posts))
	for i, p := range posts {
		items[i] = model.NewFeedPost(p)
	}

	if len(items) > 0 {
		r.populate(ctx, req.ViewerID, items)
	}
	return newPage(SourceDB, items), nil
}

// Wait blocks until background repopulations finish.
func (r *Reader) Wait() {
	r.pending.Wait()
}

// cachedIDs reads the page membership from the cache. A cache error counts as a miss.
func (r *Reader) cachedIDs(ctx context.Context, req Request) []string {
	key := cache.FeedKey(req.ViewerID)

	var (
		ids []string
		err error
	)
	if req.Cursor == nil {
		ids, err = r.ranked.RevRange(ctx, key, req.Limit)
	} else {
		ids, err = r.ranked.RevRangeBefore(ctx, key, *req.Cursor, req.Limit)
	}
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("feed cache read failed, using store")
		return nil
	}
	return ids
}

func (r *Reader) populate(ctx context.Context, viewerID string, items []model.FeedPost) {
	members := make([]cache.ScoredMember, len(items))
	for i, item := range items {
		members[i] = cache.ScoredMember{Member: item.ID, Score: item.CreatedAtScore}
	}
	key := cache.FeedKey(viewerID)

	write := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, r.populateTimeout)
		defer cancel()

		if err := r.ranked.AddScored(ctx, key, members, r.ttl); err != nil {
			r.logger.Warn().Err(err).Str("key", key).Int("members", len(members)).Msg("feed cache populate failed")
		}
	}

	if r.synchronous {
		write(ctx)
		return
	}

	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		write(context.WithoutCancel(ctx))
	}()
}
