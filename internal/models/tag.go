package models

// Tag is the number of posts currently carrying a tag name
type Tag struct {
	Name  string `json:"name" db:"name"`
	Count int    `json:"count" db:"count"`
}

// MaxTagsListed caps the tag listing
const MaxTagsListed = 50
