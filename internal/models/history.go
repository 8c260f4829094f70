package models

import "time"

// QueryRecord is one executed semantic query, kept for debugging and audit.
type QueryRecord struct {
	ID         string
	Model      string
	SQL        string
	DurationMs int64
	RowCount   int
	ExecutedAt time.Time
}
