package repository

import (
    "context"
    "database/sql"

    "advicehub/internal/model"
)

// RatingRepo stores individual rating rows. The table carries a UNIQUE
// (advice_id, user_id) constraint; UpsertTx leans on it so that a repeat
// submission by the same user overwrites the earlier score instead of adding
// a second row, even when two requests race on the insert.
type RatingRepo struct {
    db *sql.DB
}

// NewRatingRepo returns a new RatingRepo bound to the given database.
func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// UpsertTx inserts or overwrites the (advice, user) rating within the given
// transaction.
func (r *RatingRepo) UpsertTx(ctx context.Context, tx *sql.Tx, adviceID, userID uint64, score int) error {
    _, err := tx.ExecContext(ctx,
        `INSERT INTO ratings (advice_id, user_id, score) VALUES (?,?,?)
         ON DUPLICATE KEY UPDATE score = VALUES(score)`,
        adviceID, userID, score)
    return err
}

// AggregateTx recomputes the exact average and count over all rating rows
// for one advice item, inside the caller's transaction. AVG is computed by
// the database over the full row set on every write; there is no incremental
// sum that could drift from the rows.
func (r *RatingRepo) AggregateTx(ctx context.Context, tx *sql.Tx, adviceID uint64) (float64, uint64, error) {
    var avg float64
    var count uint64
    err := tx.QueryRowContext(ctx,
        "SELECT ROUND(COALESCE(AVG(score),0),2), COUNT(*) FROM ratings WHERE advice_id=?",
        adviceID).Scan(&avg, &count)
    return avg, count, err
}

// GetByTargetAndSubject fetches the single rating a user gave an item.
// Returns ErrNotFound when the user has not rated it.
func (r *RatingRepo) GetByTargetAndSubject(ctx context.Context, adviceID, userID uint64) (model.Rating, error) {
    var rt model.Rating
    err := r.db.QueryRowContext(ctx,
        `SELECT id, advice_id, user_id, score, created_at, updated_at
         FROM ratings WHERE advice_id=? AND user_id=? LIMIT 1`,
        adviceID, userID).Scan(&rt.ID, &rt.AdviceID, &rt.UserID, &rt.Score, &rt.CreatedAt, &rt.UpdatedAt)
    if err == sql.ErrNoRows {
        return rt, ErrNotFound
    }
    return rt, err
}

// AllForTarget returns every rating row for one advice item, oldest first.
func (r *RatingRepo) AllForTarget(ctx context.Context, adviceID uint64) ([]model.Rating, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, advice_id, user_id, score, created_at, updated_at
         FROM ratings WHERE advice_id=? ORDER BY id`, adviceID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Rating, 0, 16)
    for rows.Next() {
        var rt model.Rating
        if err := rows.Scan(&rt.ID, &rt.AdviceID, &rt.UserID, &rt.Score, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, rt)
    }
    return out, rows.Err()
}
