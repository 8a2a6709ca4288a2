package di_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-social-feed/cache"
	"github.com/goliatone/go-social-feed/feed"
	"github.com/goliatone/go-social-feed/reconcile"
	"github.com/goliatone/go-social-feed/social"
	"github.com/hibiken/asynq"
)

func process(t *testing.T, mux *asynq.ServeMux, tasks []*asynq.Task) {
	t.Helper()
	for _, task := range tasks {
		if err := mux.ProcessTask(context.Background(), task); err != nil {
			t.Fatalf("ProcessTask(%s): %v", task.Type(), err)
		}
	}
}

func TestIntegration_FeedThroughPostCache(t *testing.T) {
	c, _ := newContainer(t, nil)
	ctx := context.Background()
	req := feed.Request{ViewerID: "u1", Limit: 3}

	first, err := c.Feed().GetFeed(ctx, req)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	c.Feed().Wait()

	second, err := c.Feed().GetFeed(ctx, req)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}

	if first.Source != feed.SourceDB || second.Source != feed.SourceCache {
		t.Fatalf("sources = %s, %s", first.Source, second.Source)
	}
	if len(first.Items) != len(second.Items) {
		t.Fatalf("page sizes differ: %d vs %d", len(first.Items), len(second.Items))
	}
	for i := range first.Items {
		if first.Items[i] != second.Items[i] {
			t.Errorf("item %d differs: %+v vs %+v", i, first.Items[i], second.Items[i])
		}
	}
}

func TestIntegration_DeletedPostLeavesCachedFeed(t *testing.T) {
	c, _ := newContainer(t, nil)
	ctx := context.Background()
	req := feed.Request{ViewerID: "u1", Limit: 3}

	if _, err := c.Feed().GetFeed(ctx, req); err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	c.Feed().Wait()
	// Load the rows into the local post cache.
	warm, err := c.Feed().GetFeed(ctx, req)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if warm.Source != feed.SourceCache || len(warm.Items) != 3 || warm.Items[0].ID != "p6" {
		t.Fatalf("unexpected warm page: %s %+v", warm.Source, warm.Items)
	}

	if _, err := c.DB().NewRaw("DELETE FROM posts WHERE id = ?", "p6").Exec(ctx); err != nil {
		t.Fatalf("delete post: %v", err)
	}

	page, err := c.Feed().GetFeed(ctx, req)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if page.Source != feed.SourceCache {
		t.Fatalf("source = %s, want cache", page.Source)
	}
	for _, item := range page.Items {
		if item.ID == "p6" {
			t.Fatalf("deleted post still listed: %+v", page.Items)
		}
	}
	if len(page.Items) != 2 || page.Items[0].ID != "p5" {
		t.Errorf("items = %+v, want p5 and p3", page.Items)
	}
}

func TestIntegration_LikeReconcileCorrectsDrift(t *testing.T) {
	c, tasks := newContainer(t, nil)
	ctx := context.Background()
	mux := asynq.NewServeMux()
	c.ReconcileHandler().Register(mux)

	res, err := c.Social().Like(ctx, social.LikeRequest{PostID: "p5", UserID: "u4"})
	if err != nil {
		t.Fatalf("Like: %v", err)
	}
	// The counter was cold, so the increment started from zero.
	if res.LikesCount != cache.KnownCount(1) {
		t.Fatalf("likesCount = %v", res.LikesCount)
	}

	queued := tasks.drain()
	if len(queued) != 1 || queued[0].Type() != reconcile.TypeReconcileLikes {
		t.Fatalf("queued = %v", queued)
	}
	process(t, mux, queued)

	n, ok, err := c.Cache().GetCount(ctx, cache.PostLikesKey("p5"))
	if err != nil || !ok || n != 3 {
		t.Errorf("reconciled likes = %d, %v, %v; want 3", n, ok, err)
	}
}

func TestIntegration_FollowReconcileAndProfile(t *testing.T) {
	c, tasks := newContainer(t, nil)
	ctx := context.Background()
	mux := asynq.NewServeMux()
	c.ReconcileHandler().Register(mux)

	if _, err := c.Social().Follow(ctx, social.FollowRequest{FollowerID: "u4", FollowingID: "u2"}); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	profile, err := c.Social().Profile(ctx, "u2")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	// Only u4 is in the cached set until reconciliation runs.
	if profile.Stats.Source != social.StatsSourceMixed || profile.Stats.FollowersCount != 1 {
		t.Errorf("pre-reconcile stats = %+v", profile.Stats)
	}

	queued := tasks.drain()
	if len(queued) != 2 {
		t.Fatalf("expected a task per user, got %d", len(queued))
	}
	process(t, mux, queued)

	profile, err = c.Social().Profile(ctx, "u2")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.Stats.FollowersCount != 2 {
		t.Errorf("post-reconcile followers = %d, want 2", profile.Stats.FollowersCount)
	}
}

func TestIntegration_WorkerConstruction(t *testing.T) {
	c, _ := newContainer(t, map[string]string{"REDIS_URL": "redis://127.0.0.1:6399/1"})

	srv, mux, err := c.NewWorker()
	if err != nil {
		t.Fatalf("NewWorker: %v", err)
	}
	if srv == nil || mux == nil {
		t.Fatal("expected server and mux")
	}

	task, err := reconcile.NewReconcileLikesTask("p1")
	if err != nil {
		t.Fatalf("NewReconcileLikesTask: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := mux.ProcessTask(ctx, task); err != nil {
		t.Errorf("ProcessTask: %v", err)
	}
}
