package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/rowboard/internal/model"
)

type LeaderboardRepository struct {
	db DBTX
}

func NewLeaderboardRepository(db DBTX) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// ForMonth counts every row's registrations within the given month.
//
// The month filter lives in the join condition so rows without
// registrations that month are still listed with a total of 0. Ties are
// broken by id.
func (r *LeaderboardRepository) ForMonth(ctx context.Context, year, month int) ([]model.LeaderboardEntry, error) {
	const query = `
		SELECT r.id, r.name, COUNT(reg.registration_date) AS total
		FROM rows r
		LEFT JOIN registrations reg
		       ON reg.row_id = r.id
		      AND reg.registration_date >= $1
		      AND reg.registration_date < $2
		GROUP BY r.id, r.name
		ORDER BY total DESC, r.id ASC`

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard for %04d-%02d: %w", year, month, err)
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.LeaderboardEntry])
	if err != nil {
		return nil, fmt.Errorf("scanning leaderboard: %w", err)
	}
	return entries, nil
}
