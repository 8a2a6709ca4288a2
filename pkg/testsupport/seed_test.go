package testsupport

import (
	"context"
	"testing"
)

func TestDefaultSeed(t *testing.T) {
	seed := DefaultSeed(t)

	if len(seed.Users) != 4 {
		t.Errorf("expected 4 users, got %d", len(seed.Users))
	}
	if len(seed.Posts) != 6 {
		t.Errorf("expected 6 posts, got %d", len(seed.Posts))
	}
	for i := 1; i < len(seed.Posts); i++ {
		if !seed.Posts[i].CreatedAt.After(seed.Posts[i-1].CreatedAt) {
			t.Errorf("posts must be listed in ascending creation order")
		}
	}
}

func TestSeedApply(t *testing.T) {
	db := OpenDB(t)
	DefaultSeed(t).Apply(t, db)

	n, err := db.NewSelect().Table("posts").Count(context.Background())
	if err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if n != 6 {
		t.Errorf("expected 6 posts, got %d", n)
	}
}
