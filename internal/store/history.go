package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/quarrydata/quarry/internal/models"
)

const historyTable = "quarry_query_history"

// HistoryStore records executed semantic queries.
type HistoryStore struct {
	db QueryInterceptor
}

func NewHistoryStore(db QueryInterceptor) *HistoryStore {
	return &HistoryStore{db: db}
}

// Migrate creates the history table when missing.
func (s *HistoryStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+historyTable+` (
			id VARCHAR PRIMARY KEY,
			model VARCHAR,
			sql_text VARCHAR,
			duration_ms BIGINT,
			row_count INTEGER,
			executed_at TIMESTAMP
		)
	`)
	return err
}

// Record inserts one executed query. The id is generated here.
func (s *HistoryStore) Record(ctx context.Context, rec models.QueryRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ExecutedAt.IsZero() {
		rec.ExecutedAt = time.Now().UTC()
	}

	query, args, err := sq.Insert(historyTable).
		Columns("id", "model", "sql_text", "duration_ms", "row_count", "executed_at").
		Values(rec.ID, rec.Model, rec.SQL, rec.DurationMs, rec.RowCount, rec.ExecutedAt).
		ToSql()
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return rec.ID, err
}

// Recent returns the latest n records, newest first.
func (s *HistoryStore) Recent(ctx context.Context, n uint64) ([]models.QueryRecord, error) {
	query, args, err := sq.Select("id", "model", "sql_text", "duration_ms", "row_count", "executed_at").
		From(historyTable).
		OrderBy("executed_at DESC").
		Limit(n).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.QueryRecord
	for rows.Next() {
		var rec models.QueryRecord
		if err := rows.Scan(&rec.ID, &rec.Model, &rec.SQL, &rec.DurationMs, &rec.RowCount, &rec.ExecutedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
