package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db          *sql.DB
	interceptor QueryInterceptor
	dataset     *DatasetStore
	history     *HistoryStore
}

func NewStore(db *sql.DB) *Store {
	interceptor := newQueryInterceptor(db)
	return &Store{
		db:          db,
		interceptor: interceptor,
		dataset:     NewDatasetStore(interceptor),
		history:     NewHistoryStore(interceptor),
	}
}

// DB returns the logging execution surface used for semantic queries.
func (s *Store) DB() QueryInterceptor {
	return s.interceptor
}

func (s *Store) Dataset() *DatasetStore {
	return s.dataset
}

func (s *Store) History() *HistoryStore {
	return s.history
}

func (s *Store) Close() error {
	return s.db.Close()
}
