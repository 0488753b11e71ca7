package repository

import (
    "context"
    "database/sql"

    "advicehub/internal/model"
)

// AdviceRepo provides CRUD operations for advice items and the aggregate
// columns the rating service maintains. The cached average/count columns on
// the advice table are written only through UpdateAggregateTx, inside the
// same transaction that touched the ratings table.
type AdviceRepo struct {
    db *sql.DB
}

// NewAdviceRepo returns a new AdviceRepo bound to the given database.
func NewAdviceRepo(db *sql.DB) *AdviceRepo { return &AdviceRepo{db: db} }

// DB exposes the underlying handle so services can open transactions that
// span the advice and ratings tables.
func (r *AdviceRepo) DB() *sql.DB { return r.db }

const adviceColumns = "id, content, author_id, average_rating, rating_count, created_at, updated_at"

// Create inserts an advice item and returns it with generated fields filled.
func (r *AdviceRepo) Create(ctx context.Context, content string, authorID uint64) (model.Advice, error) {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO advice (content, author_id) VALUES (?,?)", content, authorID)
    if err != nil {
        return model.Advice{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.Advice{}, err
    }
    return r.GetByID(ctx, uint64(id))
}

// GetByID fetches one advice item. Returns ErrNotFound when absent.
func (r *AdviceRepo) GetByID(ctx context.Context, id uint64) (model.Advice, error) {
    return scanAdvice(r.db.QueryRowContext(ctx,
        "SELECT "+adviceColumns+" FROM advice WHERE id=? LIMIT 1", id))
}

// List returns a page of advice items, newest first.
func (r *AdviceRepo) List(ctx context.Context, limit, offset int) ([]model.Advice, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+adviceColumns+" FROM advice ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
        limit, offset)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectAdvice(rows)
}

// TopRated returns up to limit advice items ordered by descending average,
// ties broken by descending count, then by more recent creation, then by id.
// The full key chain makes the ordering deterministic for equal aggregates.
func (r *AdviceRepo) TopRated(ctx context.Context, limit int) ([]model.Advice, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+adviceColumns+` FROM advice
         ORDER BY average_rating DESC, rating_count DESC, created_at DESC, id DESC
         LIMIT ?`, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return collectAdvice(rows)
}

// UpdateContent rewrites an item's text. Ownership has already been checked
// by the handler.
func (r *AdviceRepo) UpdateContent(ctx context.Context, id uint64, content string) error {
    _, err := r.db.ExecContext(ctx,
        "UPDATE advice SET content=? WHERE id=?", content, id)
    return err
}

// Delete removes an item; the ratings table cascades on advice_id.
func (r *AdviceRepo) Delete(ctx context.Context, id uint64) error {
    _, err := r.db.ExecContext(ctx, "DELETE FROM advice WHERE id=?", id)
    return err
}

// LockTx reads an advice row under FOR UPDATE inside the given transaction.
// Every rating submission for the same item queues on this lock, which is
// what linearizes concurrent submissions per target. Returns ErrNotFound for
// an unknown id.
func (r *AdviceRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Advice, error) {
    return scanAdvice(tx.QueryRowContext(ctx,
        "SELECT "+adviceColumns+" FROM advice WHERE id=? FOR UPDATE", id))
}

// UpdateAggregateTx persists a freshly recomputed average/count pair within
// the transaction that changed the underlying ratings.
func (r *AdviceRepo) UpdateAggregateTx(ctx context.Context, tx *sql.Tx, id uint64, average float64, count uint64) error {
    _, err := tx.ExecContext(ctx,
        "UPDATE advice SET average_rating=?, rating_count=? WHERE id=?", average, count, id)
    return err
}

func scanAdvice(row *sql.Row) (model.Advice, error) {
    var a model.Advice
    err := row.Scan(&a.ID, &a.Content, &a.AuthorID, &a.AverageRating, &a.RatingCount, &a.CreatedAt, &a.UpdatedAt)
    if err == sql.ErrNoRows {
        return a, ErrNotFound
    }
    return a, err
}

func collectAdvice(rows *sql.Rows) ([]model.Advice, error) {
    out := make([]model.Advice, 0, 16)
    for rows.Next() {
        var a model.Advice
        if err := rows.Scan(&a.ID, &a.Content, &a.AuthorID, &a.AverageRating, &a.RatingCount, &a.CreatedAt, &a.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, a)
    }
    return out, rows.Err()
}
