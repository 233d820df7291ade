package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const countTablesQuery = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public'`

type tablesRepository struct {
	db *sqlx.DB
}

func NewTablesRepository(db *sqlx.DB) TablesRepository {
	return &tablesRepository{db: db}
}

// CountTablesDB counts the tables in the public schema.
func (r *tablesRepository) CountTablesDB(ctx context.Context) (int, error) {
	var count int

	if err := r.db.GetContext(ctx, &count, countTablesQuery); err != nil {
		return 0, queryError(err)
	}

	return count, nil
}
