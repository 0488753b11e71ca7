package model

import "time"

// Advice mirrors the 'advice' table. AverageRating and RatingCount are
// derived from the ratings table and are rewritten on every rating
// submission; they exist only so reads are O(1). AverageRating is 0 while
// the item is unrated, otherwise it lies in [1.0, 5.0].
type Advice struct {
	ID            uint64    `json:"id"`
	Content       string    `json:"content"`
	AuthorID      uint64    `json:"author_id"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   uint64    `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
