// Package service holds the rating aggregation logic: the one place where
// the cached average/count columns on advice rows are allowed to change.
package service

import (
    "context"
    "errors"
    "log"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"

    "advicehub/internal/model"
    "advicehub/internal/queue"
    "advicehub/internal/repository"
)

// ErrInvalidScore is returned before any storage work when the submitted
// score is outside [1,5].
var ErrInvalidScore = errors.New("score must be an integer between 1 and 5")

// maxSubmitAttempts bounds retries when the submission transaction loses to
// a concurrent writer (deadlock or lock wait timeout).
const maxSubmitAttempts = 3

// RatingService owns rating submissions and the derived aggregates. Each
// submission runs as one transaction: lock the advice row, upsert the
// (advice, user) rating, recompute average/count exactly from all rating
// rows, write the aggregate back. The row lock serializes submissions per
// advice item; different items proceed independently. The aggregate is never
// adjusted incrementally, so it cannot drift from the rows it summarizes.
type RatingService struct {
    advice  *repository.AdviceRepo
    ratings *repository.RatingRepo
    cache   *redis.Client // may be nil; used to drop stale top-rated responses
    prefix  string        // cache key prefix to invalidate
}

// NewRatingService wires the service. cache may be nil when Redis is down or
// disabled; invalidation is then skipped.
func NewRatingService(advice *repository.AdviceRepo, ratings *repository.RatingRepo, cache *redis.Client, cachePrefix string) *RatingService {
    return &RatingService{advice: advice, ratings: ratings, cache: cache, prefix: cachePrefix}
}

// Submit records the user's score for an advice item and returns the new
// average and count. A repeat submission by the same user replaces the
// earlier score. Returns ErrInvalidScore for out-of-range scores,
// repository.ErrNotFound for unknown advice, repository.ErrConflict when
// lock contention persists through all retries.
func (s *RatingService) Submit(ctx context.Context, adviceID, userID uint64, score int) (float64, uint64, error) {
    if !model.ValidScore(score) {
        return 0, 0, ErrInvalidScore
    }

    var average float64
    var count uint64
    for attempt := 1; ; attempt++ {
        var err error
        average, count, err = s.submitOnce(ctx, adviceID, userID, score)
        if err == nil {
            break
        }
        if !isLockContention(err) || attempt >= maxSubmitAttempts {
            if isLockContention(err) {
                return 0, 0, repository.ErrConflict
            }
            return 0, 0, err
        }
        // Linear backoff before retrying; the losing transaction was rolled
        // back by MySQL so a clean retry is safe.
        select {
        case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
        case <-ctx.Done():
            return 0, 0, ctx.Err()
        }
    }

    s.afterCommit(adviceID, userID, score, average, count)
    return average, count, nil
}

// submitOnce runs a single attempt of the atomic unit.
func (s *RatingService) submitOnce(ctx context.Context, adviceID, userID uint64, score int) (float64, uint64, error) {
    tx, err := s.advice.DB().BeginTx(ctx, nil)
    if err != nil {
        return 0, 0, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // The FOR UPDATE read is the serialization point for this advice item.
    if _, err := s.advice.LockTx(ctx, tx, adviceID); err != nil {
        return 0, 0, err
    }
    if err := s.ratings.UpsertTx(ctx, tx, adviceID, userID, score); err != nil {
        return 0, 0, err
    }
    average, count, err := s.ratings.AggregateTx(ctx, tx, adviceID)
    if err != nil {
        return 0, 0, err
    }
    if err := s.advice.UpdateAggregateTx(ctx, tx, adviceID, average, count); err != nil {
        return 0, 0, err
    }
    if err := tx.Commit(); err != nil {
        return 0, 0, err
    }
    committed = true
    return average, count, nil
}

// TopRated returns up to limit advice items in descending rating order. The
// ordering (average, count, created_at, id — all descending) is total, so
// equal aggregates always come back in the same sequence.
func (s *RatingService) TopRated(ctx context.Context, limit int) ([]model.Advice, error) {
    if limit <= 0 {
        limit = 10
    }
    if limit > 100 {
        limit = 100
    }
    return s.advice.TopRated(ctx, limit)
}

// afterCommit runs the best-effort side effects of a successful submission:
// dropping cached top-rated responses and publishing the broker event.
// Neither may fail the request, the rating is already durable.
func (s *RatingService) afterCommit(adviceID, userID uint64, score int, average float64, count uint64) {
    ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
    defer cancel()

    if s.cache != nil {
        if err := s.invalidateCache(ctx); err != nil {
            log.Printf("rating: cache invalidate failed: %v", err)
        }
    }
    _ = queue.PublishRatingSubmitted(ctx, queue.RatingSubmittedEvent{
        AdviceID: adviceID,
        UserID:   userID,
        Score:    score,
        Average:  average,
        Count:    count,
        RatedAt:  time.Now().UTC().Format(time.RFC3339),
    })
}

// invalidateCache deletes every cached response under the configured prefix.
// Only read-side GETs are cached, so a full sweep after a write is cheap.
func (s *RatingService) invalidateCache(ctx context.Context) error {
    var cursor uint64
    for {
        keys, next, err := s.cache.Scan(ctx, cursor, s.prefix+":*", 100).Result()
        if err != nil {
            return err
        }
        if len(keys) > 0 {
            if err := s.cache.Del(ctx, keys...).Err(); err != nil {
                return err
            }
        }
        if next == 0 {
            return nil
        }
        cursor = next
    }
}

// isLockContention recognizes MySQL deadlock (1213) and lock wait timeout
// (1205) errors, the two outcomes of losing the per-row serialization race.
func isLockContention(err error) bool {
    if err == nil {
        return false
    }
    msg := err.Error()
    return strings.Contains(msg, "1213") || strings.Contains(msg, "1205") ||
        strings.Contains(strings.ToLower(msg), "deadlock")
}
