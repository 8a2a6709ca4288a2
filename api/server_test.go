package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/goliatone/go-social-feed/api"
	"github.com/goliatone/go-social-feed/feed"
	"github.com/goliatone/go-social-feed/pkg/testsupport"
	"github.com/goliatone/go-social-feed/social"
	"github.com/rs/zerolog"
)

type harness struct {
	handler http.Handler
	mr      *miniredis.Miniredis
}

func newHarness(t *testing.T, cfg api.Config) harness {
	t.Helper()

	s := testsupport.OpenStore(t)
	testsupport.DefaultSeed(t).Apply(t, s.DB())
	c, mr := testsupport.NewCache(t)

	reader := feed.NewReader(s, c, feed.WithSynchronousPopulate())
	svc := social.New(s, s, c)
	srv := api.NewServer(cfg, reader, svc, s, c, zerolog.Nop())

	return harness{handler: srv.Handler(), mr: mr}
}

func (h harness) do(t *testing.T, method, target, body string) (int, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: invalid json %q: %v", method, target, rec.Body.String(), err)
	}
	return rec.Code, out
}

func TestFeed_EmptyViewer(t *testing.T) {
	h := newHarness(t, api.Config{})

	code, body := h.do(t, http.MethodGet, "/api/feed?viewerId=v1", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d, body %v", code, body)
	}
	if body["source"] != "db" || body["nextCursor"] != nil {
		t.Errorf("unexpected body %v", body)
	}
	if items, ok := body["items"].([]any); !ok || len(items) != 0 {
		t.Errorf("items = %#v", body["items"])
	}
}

func TestFeed_PagesAndCaches(t *testing.T) {
	h := newHarness(t, api.Config{})

	code, first := h.do(t, http.MethodGet, "/api/feed?viewerId=u1&limit=2", "")
	if code != http.StatusOK || first["source"] != "db" {
		t.Fatalf("first page: %d %v", code, first)
	}
	if n := len(first["items"].([]any)); n != 2 {
		t.Fatalf("expected 2 items, got %d", n)
	}

	_, again := h.do(t, http.MethodGet, "/api/feed?viewerId=u1&limit=2", "")
	if again["source"] != "cache" {
		t.Errorf("second read should hit the cache, got %v", again["source"])
	}
}

func TestFeed_LimitIsClamped(t *testing.T) {
	h := newHarness(t, api.Config{})

	code, body := h.do(t, http.MethodGet, "/api/feed?viewerId=u1&limit=500", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if n := len(body["items"].([]any)); n != 5 {
		t.Errorf("expected all 5 visible posts, got %d", n)
	}

	code, body = h.do(t, http.MethodGet, "/api/feed?viewerId=u1&limit=0", "")
	if code != http.StatusOK || len(body["items"].([]any)) != 1 {
		t.Errorf("limit 0 should clamp to 1: %d %v", code, body)
	}
}

func TestFeed_BadRequests(t *testing.T) {
	h := newHarness(t, api.Config{})

	for _, target := range []string{
		"/api/feed",
		"/api/feed?viewerId=u1&cursor=yesterday",
		"/api/feed?viewerId=u1&limit=ten",
		"/api/feed?viewerId=u1&cursor=9223372036854775807",
		"/api/feed?viewerId=u1&cursor=-5",
	} {
		code, body := h.do(t, http.MethodGet, target, "")
		if code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", target, code)
		}
		if body["ok"] != false || body["code"] != "VALIDATION_ERROR" {
			t.Errorf("%s: body = %v", target, body)
		}
	}
}

func TestLikeEndpoints(t *testing.T) {
	h := newHarness(t, api.Config{})

	code, body := h.do(t, http.MethodPost, "/api/posts/p2/like", `{"userId":"u1"}`)
	if code != http.StatusOK || body["ok"] != true || body["status"] != "liked" || body["likesCount"] != float64(1) {
		t.Fatalf("like: %d %v", code, body)
	}

	_, body = h.do(t, http.MethodPost, "/api/posts/p2/like", `{"userId":"u1"}`)
	if body["status"] != "already_liked" || body["likesCount"] != float64(1) {
		t.Errorf("repeat like: %v", body)
	}

	_, body = h.do(t, http.MethodPost, "/api/posts/p2/unlike", `{"userId":"u1"}`)
	if body["status"] != "unliked" || body["likesCount"] != float64(0) {
		t.Errorf("unlike: %v", body)
	}

	code, body = h.do(t, http.MethodPost, "/api/posts/missing/like", `{"userId":"u1"}`)
	if code != http.StatusBadRequest {
		t.Errorf("unknown post: %d %v", code, body)
	}
}

func TestLike_CacheDownReturnsNullCount(t *testing.T) {
	h := newHarness(t, api.Config{})
	h.mr.Close()

	code, body := h.do(t, http.MethodPost, "/api/posts/p2/like", `{"userId":"u1"}`)
	if code != http.StatusOK || body["status"] != "liked" {
		t.Fatalf("like: %d %v", code, body)
	}
	if v, present := body["likesCount"]; !present || v != nil {
		t.Errorf("likesCount should be null, got %v", v)
	}
}

func TestFollowEndpoints(t *testing.T) {
	h := newHarness(t, api.Config{})

	code, body := h.do(t, http.MethodPost, "/api/users/follow", `{"followerId":"u4","followingId":"u1"}`)
	if code != http.StatusOK || body["status"] != "followed" || body["followersCount"] != float64(1) {
		t.Fatalf("follow: %d %v", code, body)
	}

	code, body = h.do(t, http.MethodPost, "/api/users/follow", `{"followerId":"u4","followingId":"u4"}`)
	if code != http.StatusBadRequest {
		t.Errorf("self follow: %d %v", code, body)
	}

	_, body = h.do(t, http.MethodPost, "/api/users/unfollow", `{"followerId":"u4","followingId":"u1"}`)
	if body["status"] != "unfollowed" {
		t.Errorf("unfollow: %v", body)
	}
}

func TestCommentEndpoints(t *testing.T) {
	h := newHarness(t, api.Config{})

	code, body := h.do(t, http.MethodPost, "/api/posts/p2/comments", `{"userId":"u1","text":"  hi  "}`)
	if code != http.StatusCreated || body["commentsCount"] != float64(1) {
		t.Fatalf("create: %d %v", code, body)
	}
	if comment := body["comment"].(map[string]any); comment["text"] != "hi" {
		t.Errorf("comment = %v", comment)
	}

	code, body = h.do(t, http.MethodPost, "/api/posts/p2/comments", `{"userId":"u1","text":"   "}`)
	if code != http.StatusBadRequest {
		t.Errorf("blank text: %d %v", code, body)
	}

	code, body = h.do(t, http.MethodGet, "/api/posts/p1/comments?limit=2", "")
	if code != http.StatusOK || len(body["items"].([]any)) != 2 {
		t.Fatalf("list: %d %v", code, body)
	}
	next := body["nextCursor"].(map[string]any)
	if next["id"] != "c2" {
		t.Errorf("nextCursor = %v", next)
	}

	for _, cursor := range []string{"garbage", "9223372036854775807_c1"} {
		code, _ = h.do(t, http.MethodGet, "/api/posts/p1/comments?cursor="+cursor, "")
		if code != http.StatusBadRequest {
			t.Errorf("cursor %s: status = %d", cursor, code)
		}
	}
}

func TestPostAndUserEndpoints(t *testing.T) {
	h := newHarness(t, api.Config{})

	code, body := h.do(t, http.MethodPost, "/api/users", `{"username":"erin"}`)
	if code != http.StatusCreated {
		t.Fatalf("create user: %d %v", code, body)
	}
	userID := body["user"].(map[string]any)["id"].(string)

	code, body = h.do(t, http.MethodPost, "/api/users", `{"username":"erin"}`)
	if code != http.StatusConflict {
		t.Errorf("duplicate user: %d %v", code, body)
	}

	code, body = h.do(t, http.MethodPost, "/api/posts", `{"userId":"`+userID+`","content":"hello"}`)
	if code != http.StatusCreated || body["post"].(map[string]any)["userId"] != userID {
		t.Errorf("create post: %d %v", code, body)
	}

	code, body = h.do(t, http.MethodGet, "/api/users?viewerId=u1", "")
	if code != http.StatusOK || len(body["users"].([]any)) != 4 {
		t.Errorf("suggestions: %d %v", code, body)
	}

	code, body = h.do(t, http.MethodGet, "/api/users/u2/profile", "")
	if code != http.StatusOK {
		t.Fatalf("profile: %d %v", code, body)
	}
	if stats := body["stats"].(map[string]any); stats["postCount"] != float64(2) || stats["source"] != "db" {
		t.Errorf("stats = %v", stats)
	}

	code, body = h.do(t, http.MethodGet, "/api/users/nobody/profile", "")
	if code != http.StatusNotFound || body["code"] != "NOT_FOUND" {
		t.Errorf("missing profile: %d %v", code, body)
	}
}

func TestMalformedJSON(t *testing.T) {
	h := newHarness(t, api.Config{})

	code, body := h.do(t, http.MethodPost, "/api/users/follow", `{"followerId":`)
	if code != http.StatusBadRequest || body["ok"] != false {
		t.Errorf("malformed json: %d %v", code, body)
	}
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t, api.Config{})

	code, body := h.do(t, http.MethodGet, "/api/nothing", "")
	if code != http.StatusNotFound || body["ok"] != false {
		t.Errorf("unknown route: %d %v", code, body)
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t, api.Config{})

	code, body := h.do(t, http.MethodGet, "/healthz", "")
	if code != http.StatusOK || body["cache"] != "up" {
		t.Errorf("health: %d %v", code, body)
	}

	h.mr.Close()
	code, body = h.do(t, http.MethodGet, "/healthz", "")
	if code != http.StatusOK || body["cache"] != "down" {
		t.Errorf("health with cache down: %d %v", code, body)
	}
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealth_DatabaseDown(t *testing.T) {
	srv := api.NewServer(api.Config{}, nil, nil, failingPinger{}, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Errorf("infrastructure detail leaked: %s", rec.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, api.Config{RateLimit: 1, RateBurst: 1})

	if code, _ := h.do(t, http.MethodGet, "/healthz", ""); code != http.StatusOK {
		t.Fatalf("first request: %d", code)
	}
	code, body := h.do(t, http.MethodGet, "/healthz", "")
	if code != http.StatusTooManyRequests || body["code"] != "RATE_LIMITED" {
		t.Errorf("second request: %d %v", code, body)
	}
}
