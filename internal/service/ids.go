package service

import (
	"strings"

	"github.com/google/uuid"
)

// newID returns prefix_ followed by the first n hex digits of a random UUID
func newID(prefix string, n int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(hex) {
		n = len(hex)
	}
	return prefix + "_" + hex[:n]
}

func newUserID() string    { return newID("user", 12) }
func newPostID() string    { return newID("post", 12) }
func newCommentID() string { return newID("comment", 12) }
func newSessionToken() string {
	return newID("session", 32)
}
