package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deppfellow/rowboard/internal/lib/cache"
	"github.com/deppfellow/rowboard/internal/model"
)

type RowService struct {
	rows   RowStore
	cache  cache.LeaderboardCache
	logger *zerolog.Logger
}

func NewRowService(rows RowStore, leaderboardCache cache.LeaderboardCache, logger *zerolog.Logger) *RowService {
	return &RowService{
		rows:   rows,
		cache:  leaderboardCache,
		logger: logger,
	}
}

func (s *RowService) List(ctx context.Context) ([]model.RowWithRegistrations, error) {
	return s.rows.List(ctx)
}

func (s *RowService) Create(ctx context.Context, req *model.CreateRowRequest) (model.Row, error) {
	row, err := s.rows.Create(ctx, req.Name)
	if err != nil {
		return model.Row{}, err
	}

	s.invalidateLeaderboards(ctx)
	loggerFrom(ctx, s.logger).Info().Int("row_id", row.ID).Msg("row created")
	return row, nil
}

// Update renames a row and echoes the submitted id and name. An unknown id
// is a no-op, not an error, and leaves the cache alone.
func (s *RowService) Update(ctx context.Context, req *model.UpdateRowRequest) (model.Row, error) {
	updated, err := s.rows.Update(ctx, req.ID, req.Name)
	if err != nil {
		return model.Row{}, err
	}

	if !updated {
		loggerFrom(ctx, s.logger).Debug().Int("row_id", req.ID).Msg("update matched no row")
		return model.Row{ID: req.ID, Name: req.Name}, nil
	}

	s.invalidateLeaderboards(ctx)
	return model.Row{ID: req.ID, Name: req.Name}, nil
}

func (s *RowService) Delete(ctx context.Context, req *model.DeleteRowRequest) error {
	if err := s.rows.Delete(ctx, req.ID); err != nil {
		return err
	}

	s.invalidateLeaderboards(ctx)
	loggerFrom(ctx, s.logger).Info().Int("row_id", req.ID).Msg("row deleted")
	return nil
}

// invalidateLeaderboards drops every cached month, since a row's name or
// existence shows up in all of them.
func (s *RowService) invalidateLeaderboards(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		loggerFrom(ctx, s.logger).Warn().Err(err).Msg("failed to invalidate cached leaderboards")
	}
}
