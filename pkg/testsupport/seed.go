package testsupport

import (
	"context"
	_ "embed"
	"encoding/json"
	"testing"
	"time"

	"github.com/goliatone/go-social-feed/model"
	"github.com/uptrace/bun"
)

//go:embed testdata/seed.json
var defaultSeed []byte

// Seed is a relational snapshot used by tests.
type Seed struct {
	Users []struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"users"`
	Posts []struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"posts"`
	Follows []struct {
		FollowerID  string `json:"followerId"`
		FollowingID string `json:"followingId"`
	} `json:"follows"`
	Likes []struct {
		PostID string `json:"postId"`
		UserID string `json:"userId"`
	} `json:"likes"`
	Comments []struct {
		ID        string    `json:"id"`
		PostID    string    `json:"postId"`
		UserID    string    `json:"userId"`
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"createdAt"`
	} `json:"comments"`
}

// DefaultSeed returns the shared fixture: four users, u1 follows u2 and u3, six posts.
func DefaultSeed(t *testing.T) Seed {
	t.Helper()

	var seed Seed
	if err := json.Unmarshal(defaultSeed, &seed); err != nil {
		t.Fatalf("failed to decode default seed: %v", err)
	}
	return seed
}

// Apply inserts the seed rows.
func (s Seed) Apply(t *testing.T, db bun.IDB) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, u := range s.Users {
		row := &model.User{ID: u.ID, Username: u.Username, CreatedAt: base}
		if _, err := db.NewInsert().Model(row).Exec(ctx); err != nil {
			t.Fatalf("seed user %s: %v", u.ID, err)
		}
	}
	for _, p := range s.Posts {
		row := &model.Post{ID: p.ID, UserID: p.UserID, Content: p.Content, CreatedAt: p.CreatedAt.UTC()}
		if _, err := db.NewInsert().Model(row).Exec(ctx); err != nil {
			t.Fatalf("seed post %s: %v", p.ID, err)
		}
	}
	for _, f := range s.Follows {
		row := &model.Follow{FollowerID: f.FollowerID, FollowingID: f.FollowingID, CreatedAt: base}
		if _, err := db.NewInsert().Model(row).Exec(ctx); err != nil {
			t.Fatalf("seed follow %s->%s: %v", f.FollowerID, f.FollowingID, err)
		}
	}
	for _, l := range s.Likes {
		row := &model.Like{PostID: l.PostID, UserID: l.UserID, CreatedAt: base}
		if _, err := db.NewInsert().Model(row).Exec(ctx); err != nil {
			t.Fatalf("seed like %s/%s: %v", l.PostID, l.UserID, err)
		}
	}
	for _, c := range s.Comments {
		row := &model.Comment{ID: c.ID, PostID: c.PostID, UserID: c.UserID, Text: c.Text, CreatedAt: c.CreatedAt.UTC()}
		if _, err := db.NewInsert().Model(row).Exec(ctx); err != nil {
			t.Fatalf("seed comment %s: %v", c.ID, err)
		}
	}
}
