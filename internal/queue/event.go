// Package queue defines message payloads exchanged over the message broker
// plus the publisher and the background consumer for rating events.
package queue

// RatingSubmittedEvent is published after a rating submission commits. It
// carries the post-commit aggregate so downstream consumers can log or feed
// analytics without querying the primary database.
type RatingSubmittedEvent struct {
    AdviceID uint64  `json:"advice_id"`
    UserID   uint64  `json:"user_id"`
    Score    int     `json:"score"`
    Average  float64 `json:"average"`
    Count    uint64  `json:"count"`
    RatedAt  string  `json:"rated_at"`
}
