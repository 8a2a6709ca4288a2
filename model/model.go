// Package model holds the relational table models and the wire projections built from them.
package model

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a registered account. Credentials are managed elsewhere.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                string    `bun:"id,pk" json:"id"`
	Username          string    `bun:"username,notnull,unique" json:"username"`
	Email             *string   `bun:"email,unique" json:"email"`
	FullName          *string   `bun:"full_name" json:"fullName"`
	Bio               *string   `bun:"bio" json:"bio"`
	ProfilePictureURL *string   `bun:"profile_picture_url" json:"profilePictureUrl"`
	Website           *string   `bun:"website" json:"website"`
	Location          *string   `bun:"location" json:"location"`
	CreatedAt         time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// Post is immutable after creation.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID        string    `bun:"id,pk"`
	UserID    string    `bun:"user_id,notnull"`
	Content   string    `bun:"content,notnull"`
	ImageURL  *string   `bun:"image_url"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// Like is keyed by (post, user); at most one row per pair.
type Like struct {
	bun.BaseModel `bun:"table:likes,alias:l"`

	PostID    string    `bun:"post_id,pk"`
	UserID    string    `bun:"user_id,pk"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// Follow is keyed by the ordered pair (follower, following).
type Follow struct {
	bun.BaseModel `bun:"table:follows,alias:f"`

	FollowerID  string    `bun:"follower_id,pk"`
	FollowingID string    `bun:"following_id,pk"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

// Comment belongs to a post. Listing order is (created_at desc, id desc).
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:c"`

	ID        string    `bun:"id,pk"`
	PostID    string    `bun:"post_id,notnull"`
	UserID    string    `bun:"user_id,notnull"`
	Text      string    `bun:"text,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

// Now returns the current UTC time truncated to milliseconds. Rows are stamped with it so
// an epoch-ms cursor addresses them exactly.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// MaxScore is the last millisecond of year 9999, the upper bound of a valid cursor.
const MaxScore int64 = 253402300799999

// ValidScore reports whether ms is a cursor position every supported database can store.
func ValidScore(ms int64) bool {
	return ms >= 0 && ms <= MaxScore
}

// Score converts a timestamp to the epoch-ms score used by cursors and ranked sets.
func Score(t time.Time) int64 {
	return t.UnixMilli()
}

// FromScore is the inverse of Score.
func FromScore(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
