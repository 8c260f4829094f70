package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/quarrydata/quarry/internal/models"
	"github.com/quarrydata/quarry/pkg/semantics"
)

// DatasetStore introspects the live DuckDB schema so semantic models can be
// defined against actual tables.
type DatasetStore struct {
	db QueryInterceptor
}

func NewDatasetStore(db QueryInterceptor) *DatasetStore {
	return &DatasetStore{db: db}
}

// Tables lists the queryable tables in the main schema.
func (s *DatasetStore) Tables(ctx context.Context) ([]string, error) {
	query, args, err := sq.Select("table_name").
		From("information_schema.tables").
		Where(sq.Eq{"table_schema": "main"}).
		OrderBy("table_name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// Describe returns the column layout of a table, ordered by ordinal position.
func (s *DatasetStore) Describe(ctx context.Context, table string) (*models.TableInfo, error) {
	query, args, err := sq.Select("column_name", "data_type").
		From("information_schema.columns").
		Where(sq.Eq{"table_schema": "main", "table_name": table}).
		OrderBy("ordinal_position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	info := &models.TableInfo{Name: table}
	for rows.Next() {
		var col models.ColumnInfo
		if err := rows.Scan(&col.Name, &col.Type); err != nil {
			return nil, err
		}
		info.Columns = append(info.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return info, nil
}

// SemanticTable converts introspection output into the compiler's table form.
func (s *DatasetStore) SemanticTable(ctx context.Context, table string) (semantics.Table, error) {
	info, err := s.Describe(ctx, table)
	if err != nil {
		return semantics.Table{}, err
	}

	out := semantics.Table{Name: info.Name, Columns: make([]semantics.Column, 0, len(info.Columns))}
	for _, col := range info.Columns {
		out.Columns = append(out.Columns, semantics.Column{Name: col.Name, Type: col.Type})
	}
	return out, nil
}
