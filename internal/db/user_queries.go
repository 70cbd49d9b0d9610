package db

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maheshdila/cv-gen-BE/internal/types"
	"github.com/maheshdila/cv-gen-BE/internal/userstore"
)

// UserQueries is a userstore.Store over the user_queries table.
type UserQueries struct {
	db *DB
}

var _ userstore.Store = (*UserQueries)(nil)

// NewUserQueries returns a store using db. Closing the store closes db.
func NewUserQueries(db *DB) *UserQueries {
	return &UserQueries{db: db}
}

func scanRecord(row pgx.Row) (*userstore.Record, error) {
	var rec userstore.Record
	var raw []byte
	if err := row.Scan(&rec.Email, &rec.CreatedAt, &rec.UpdatedAt, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &rec.RawInput); err != nil {
		return nil, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return &rec, nil
}

// Put inserts rec as a new history row, which also makes it the latest record.
func (q *UserQueries) Put(ctx context.Context, rec *userstore.Record) error {
	email, err := userstore.ValidateEmail(rec.Email)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(rec.RawInput)
	if err != nil {
		return &userstore.StorageError{Op: "put", Email: email, Cause: err}
	}

	_, err = q.db.pool.Exec(ctx, insertQuerySQL, email, rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(), raw)
	if err != nil {
		return &userstore.StorageError{Op: "put", Email: email, Cause: err}
	}
	return nil
}

// Get returns the latest record for email, or nil when none exists.
func (q *UserQueries) Get(ctx context.Context, email string) (*userstore.Record, error) {
	email = userstore.NormalizeEmail(email)
	rec, err := scanRecord(q.db.pool.QueryRow(ctx, latestQuerySQL, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &userstore.StorageError{Op: "get", Email: email, Cause: err}
	}
	return rec, nil
}

// Update rewrites the raw input of the latest record, inserting one when the email has none.
func (q *UserQueries) Update(ctx context.Context, email string, raw types.GenerateRequest, now time.Time) (*userstore.Record, error) {
	normalized, err := userstore.ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, &userstore.StorageError{Op: "update", Email: normalized, Cause: err}
	}

	rec, err := scanRecord(q.db.pool.QueryRow(ctx, updateLatestSQL, normalized, now, payload))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, &userstore.StorageError{Op: "update", Email: normalized, Cause: err}
	}

	created := &userstore.Record{Email: normalized, CreatedAt: now, UpdatedAt: now, RawInput: raw}
	if err := q.Put(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// History returns up to limit records for email, newest first.
func (q *UserQueries) History(ctx context.Context, email string, limit int) ([]userstore.Record, error) {
	email = userstore.NormalizeEmail(email)
	if limit <= 0 {
		limit = userstore.DefaultHistoryLimit
	}

	rows, err := q.db.pool.Query(ctx, historySQL, email, limit)
	if err != nil {
		return nil, &userstore.StorageError{Op: "history", Email: email, Cause: err}
	}
	defer rows.Close()

	var records []userstore.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &userstore.StorageError{Op: "history", Email: email, Cause: err}
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &userstore.StorageError{Op: "history", Email: email, Cause: err}
	}
	return records, nil
}

// Close closes the underlying pool.
func (q *UserQueries) Close() error {
	q.db.Close()
	return nil
}
