package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/rowboard/internal/model"
	"github.com/deppfellow/rowboard/internal/sqlerr"
)

const rowsTable = "rows"

type RowRepository struct {
	db DBTX
}

func NewRowRepository(db DBTX) *RowRepository {
	return &RowRepository{db: db}
}

// List returns every row with its registration dates, ordered by id.
//
// The dates are aggregated server side into one comma separated string
// per row and split back into a list here.
func (r *RowRepository) List(ctx context.Context) ([]model.RowWithRegistrations, error) {
	const query = `
		SELECT r.id, r.name,
		       COALESCE(
		           (SELECT STRING_AGG(to_char(reg.registration_date, 'YYYY-MM-DD'), ',' ORDER BY reg.registration_date)
		            FROM registrations reg
		            WHERE reg.row_id = r.id),
		           ''
		       ) AS registrations
		FROM rows r
		ORDER BY r.id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing rows: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.RowWithRegistrations, error) {
		var (
			out  model.RowWithRegistrations
			aggr string
		)
		if err := row.Scan(&out.ID, &out.Name, &aggr); err != nil {
			return out, err
		}
		out.Registrations = splitDates(aggr)
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning rows: %w", err)
	}

	return result, nil
}

func splitDates(aggr string) []string {
	if aggr == "" {
		return []string{}
	}
	return strings.Split(aggr, ",")
}

// Create inserts a row and returns it with its generated id.
func (r *RowRepository) Create(ctx context.Context, name string) (model.Row, error) {
	const query = `INSERT INTO rows (name) VALUES ($1) RETURNING id, name`

	var row model.Row
	if err := r.db.QueryRow(ctx, query, name).Scan(&row.ID, &row.Name); err != nil {
		return model.Row{}, fmt.Errorf("inserting row: %w", err)
	}
	return row, nil
}

// Update renames a row. It reports whether a row with that id existed.
func (r *RowRepository) Update(ctx context.Context, id int, name string) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE rows SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return false, fmt.Errorf("updating row %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a row. Its registrations go with it through the
// foreign key cascade.
func (r *RowRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting row %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting row %d: %w", id, sqlerr.NoRows(rowsTable))
	}
	return nil
}
