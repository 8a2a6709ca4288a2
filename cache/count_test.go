package cache

import (
	"encoding/json"
	"testing"
)

func TestCount_JSON(t *testing.T) {
	payload := struct {
		Likes    Count `json:"likesCount"`
		Comments Count `json:"commentsCount"`
	}{
		Likes:    KnownCount(0),
		Comments: UnknownCount(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"likesCount":0,"commentsCount":null}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	var decoded struct {
		Likes    Count `json:"likesCount"`
		Comments Count `json:"commentsCount"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Likes != KnownCount(0) {
		t.Errorf("likes = %v, want known 0", decoded.Likes)
	}
	if decoded.Comments.Known {
		t.Errorf("comments should be unknown, got %v", decoded.Comments)
	}
}

func TestCount_String(t *testing.T) {
	if got := KnownCount(7).String(); got != "7" {
		t.Errorf("got %q", got)
	}
	if got := UnknownCount().String(); got != "unknown" {
		t.Errorf("got %q", got)
	}
}
