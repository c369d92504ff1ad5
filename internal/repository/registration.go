package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/rowboard/internal/model"
	"github.com/deppfellow/rowboard/internal/sqlerr"
)

const registrationsTable = "registrations"

type RegistrationRepository struct {
	db DBTX
}

func NewRegistrationRepository(db DBTX) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create inserts reg unless the row already has a registration on that
// date. It reports whether a registration was inserted.
//
// The check and the insert are one statement backed by the primary key,
// so concurrent identical requests cannot both succeed.
func (r *RegistrationRepository) Create(ctx context.Context, reg model.Registration) (bool, error) {
	const query = `
		INSERT INTO registrations (row_id, registration_date)
		VALUES ($1, $2)
		ON CONFLICT (row_id, registration_date) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, reg.RowID, reg.Date)
	if err != nil {
		return false, fmt.Errorf("inserting registration: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes reg.
func (r *RegistrationRepository) Delete(ctx context.Context, reg model.Registration) error {
	const query = `DELETE FROM registrations WHERE row_id = $1 AND registration_date = $2`

	tag, err := r.db.Exec(ctx, query, reg.RowID, reg.Date)
	if err != nil {
		return fmt.Errorf("deleting registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting registration: %w", sqlerr.NoRows(registrationsTable))
	}
	return nil
}
