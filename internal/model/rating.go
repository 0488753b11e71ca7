package model

import "time"

// Rating mirrors the 'ratings' table. The pair (AdviceID, UserID) is unique:
// a user rating the same advice twice overwrites the earlier score instead of
// adding a row. Score is an integer between 1 and 5 inclusive.
type Rating struct {
	ID        uint64    `json:"id"`
	AdviceID  uint64    `json:"advice_id"`
	UserID    uint64    `json:"user_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MinScore and MaxScore bound valid rating scores.
const (
	MinScore = 1
	MaxScore = 5
)

// ValidScore reports whether score lies in the accepted [1,5] range.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}
