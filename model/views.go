package model

// TimeLayout renders timestamps as ISO-8601 with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FeedPost is the wire shape of a post in feed pages and create responses.
type FeedPost struct {
	ID             string  `json:"id"`
	UserID         string  `json:"userId"`
	Content        string  `json:"content"`
	ImageURL       *string `json:"imageUrl"`
	CreatedAt      string  `json:"createdAt"`
	CreatedAtScore int64   `json:"createdAtScore"`
}

// NewFeedPost projects a post row onto its wire shape.
func NewFeedPost(p Post) FeedPost {
	return FeedPost{
		ID:             p.ID,
		UserID:         p.UserID,
		Content:        p.Content,
		ImageURL:       p.ImageURL,
		CreatedAt:      p.CreatedAt.UTC().Format(TimeLayout),
		CreatedAtScore: Score(p.CreatedAt),
	}
}

// CommentView is the wire shape of a comment.
type CommentView struct {
	ID             string `json:"id"`
	PostID         string `json:"postId"`
	UserID         string `json:"userId"`
	Text           string `json:"text"`
	CreatedAt      string `json:"createdAt"`
	CreatedAtScore int64  `json:"createdAtScore"`
}

// NewCommentView projects a comment row onto its wire shape.
func NewCommentView(c Comment) CommentView {
	return CommentView{
		ID:             c.ID,
		PostID:         c.PostID,
		UserID:         c.UserID,
		Text:           c.Text,
		CreatedAt:      c.CreatedAt.UTC().Format(TimeLayout),
		CreatedAtScore: Score(c.CreatedAt),
	}
}

// UserSuggestion is a user the viewer may follow.
type UserSuggestion struct {
	ID                string  `bun:"id" json:"id"`
	Username          string  `bun:"username" json:"username"`
	ProfilePictureURL *string `bun:"profile_picture_url" json:"profilePictureUrl"`
	IsFollowing       bool    `bun:"is_following" json:"isFollowing"`
}

// PublicUser is the wire shape of a user without contact details.
type PublicUser struct {
	ID                string  `json:"id"`
	Username          string  `json:"username"`
	FullName          *string `json:"fullName"`
	Bio               *string `json:"bio"`
	ProfilePictureURL *string `json:"profilePictureUrl"`
	Website           *string `json:"website"`
	Location          *string `json:"location"`
	CreatedAt         string  `json:"createdAt"`
}

// NewPublicUser projects a user row onto its wire shape.
func NewPublicUser(u User) PublicUser {
	return PublicUser{
		ID:                u.ID,
		Username:          u.Username,
		FullName:          u.FullName,
		Bio:               u.Bio,
		ProfilePictureURL: u.ProfilePictureURL,
		Website:           u.Website,
		Location:          u.Location,
		CreatedAt:         u.CreatedAt.UTC().Format(TimeLayout),
	}
}
