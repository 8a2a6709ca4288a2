package cache

import "strings"

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = ":"

// Key joins segments into a cache key.
func Key(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

// FeedKey is the ranked set of post ids visible to a viewer.
func FeedKey(viewerID string) string {
	return Key("feed", viewerID)
}

// PostLikesKey is the likes counter of a post.
func PostLikesKey(postID string) string {
	return Key("post", "likes", postID)
}

// CommentsCountKey is the comments counter of a post.
func CommentsCountKey(postID string) string {
	return Key("post", "comments_count", postID)
}

// FollowingKey is the set of users userID follows.
func FollowingKey(userID string) string {
	return Key("user", "following", userID)
}

// FollowersKey is the set of users following userID.
func FollowersKey(userID string) string {
	return Key("user", "followers", userID)
}

// BatchPrefix is the prefix for in-process records of one kind; ids are appended by the cache.
func BatchPrefix(kind string) string {
	return Key("local", kind)
}
