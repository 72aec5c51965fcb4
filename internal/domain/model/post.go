package model

import (
	"time"
)

const (
	DefaultPostImage    = "https://images.unsplash.com/photo-1499750310107-5fef28a66643?w=800"
	DefaultPostReadTime = "5 min read"
)

type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	CategoryID string    `json:"category_id"`
	Category   *Category `json:"category"` // Resolved at read time; nil if the reference dangles
	Image      string    `json:"image"`
	ReadTime   string    `json:"read_time"`
	Likes      int       `json:"likes"`
	Comments   []Comment `json:"comments"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Comment is owned by its parent post: appended, never edited or removed
// on its own.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
