package repository

import (
	"context"

	"gorm.io/gorm"
)

// TableInfo describes one table for the db-viewer front end
type TableInfo struct {
	Name    string `json:"name"`
	Records int64  `json:"records"`
}

// IntrospectRepository exposes read-only schema and row access for the
// db-viewer pages
type IntrospectRepository interface {
	ListTables(ctx context.Context) ([]TableInfo, error)
	TableColumns(ctx context.Context, table string) ([]string, error)
	TableData(ctx context.Context, table string, limit int) ([]map[string]interface{}, error)
	CountRows(ctx context.Context, table string) (int64, error)
}

// introspectRepository implements IntrospectRepository
type introspectRepository struct {
	db *gorm.DB
}

// NewIntrospectRepository creates a new introspection repository
func NewIntrospectRepository(db *gorm.DB) IntrospectRepository {
	return &introspectRepository{db: db}
}

// ListTables returns every table with its row count
func (r *introspectRepository) ListTables(ctx context.Context) ([]TableInfo, error) {
	tables, err := r.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, storageErr("list tables", err)
	}

	result := make([]TableInfo, 0, len(tables))
	for _, name := range tables {
		var count int64
		if err := r.db.WithContext(ctx).Table(name).Count(&count).Error; err != nil {
			count = 0
		}
		result = append(result, TableInfo{Name: name, Records: count})
	}
	return result, nil
}

// resolveTable validates a caller-supplied table name against the
// actual schema. Table names cannot be bound as query parameters, so
// anything not in the schema is rejected before it reaches SQL.
func (r *introspectRepository) resolveTable(ctx context.Context, table string) (string, error) {
	tables, err := r.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return "", storageErr("list tables", err)
	}
	for _, name := range tables {
		if name == table {
			return name, nil
		}
	}
	return "", ErrNotFound
}

// TableColumns returns the column names of a table
func (r *introspectRepository) TableColumns(ctx context.Context, table string) ([]string, error) {
	name, err := r.resolveTable(ctx, table)
	if err != nil {
		return nil, err
	}

	types, err := r.db.WithContext(ctx).Migrator().ColumnTypes(name)
	if err != nil {
		return nil, storageErr("table columns", err)
	}

	columns := make([]string, 0, len(types))
	for _, t := range types {
		columns = append(columns, t.Name())
	}
	return columns, nil
}

// TableData returns up to limit rows of a table; limit <= 0 means all
func (r *introspectRepository) TableData(ctx context.Context, table string, limit int) ([]map[string]interface{}, error) {
	name, err := r.resolveTable(ctx, table)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Table(name)
	if limit > 0 {
		query = query.Limit(limit)
	}

	rows := []map[string]interface{}{}
	if err := query.Find(&rows).Error; err != nil {
		return nil, storageErr("table data", err)
	}
	return rows, nil
}

// CountRows counts the rows of a table
func (r *introspectRepository) CountRows(ctx context.Context, table string) (int64, error) {
	name, err := r.resolveTable(ctx, table)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Table(name).Count(&count).Error; err != nil {
		return 0, storageErr("count rows", err)
	}
	return count, nil
}
