package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deppfellow/rowboard/internal/errs"
	"github.com/deppfellow/rowboard/internal/lib/cache"
	"github.com/deppfellow/rowboard/internal/model"
)

// ErrCodeRegistrationExists is the error code returned when a row is
// registered twice on the same date.
const ErrCodeRegistrationExists = "REGISTRATION_ALREADY_EXISTS"

type RegistrationService struct {
	registrations RegistrationStore
	cache         cache.LeaderboardCache
	logger        *zerolog.Logger
}

func NewRegistrationService(registrations RegistrationStore, leaderboardCache cache.LeaderboardCache, logger *zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		registrations: registrations,
		cache:         leaderboardCache,
		logger:        logger,
	}
}

// Create registers a row on a date. A second registration for the same
// row and date is a 409.
func (s *RegistrationService) Create(ctx context.Context, req *model.CreateRegistrationRequest) error {
	reg, err := req.Registration()
	if err != nil {
		return err
	}

	created, err := s.registrations.Create(ctx, reg)
	if err != nil {
		return err
	}
	if !created {
		code := ErrCodeRegistrationExists
		return errs.NewConflictError("Registration already exists", true, &code)
	}

	s.invalidateMonth(ctx, reg)
	return nil
}

func (s *RegistrationService) Delete(ctx context.Context, req *model.DeleteRegistrationRequest) error {
	reg, err := req.Registration()
	if err != nil {
		return err
	}

	if err := s.registrations.Delete(ctx, reg); err != nil {
		return err
	}

	s.invalidateMonth(ctx, reg)
	loggerFrom(ctx, s.logger).Info().
		Int("row_id", reg.RowID).
		Str("date", req.Date).
		Msg("registration deleted")
	return nil
}

func (s *RegistrationService) invalidateMonth(ctx context.Context, reg model.Registration) {
	year, month := reg.Date.Year(), int(reg.Date.Month())
	if err := s.cache.Invalidate(ctx, year, month); err != nil {
		loggerFrom(ctx, s.logger).Warn().
			Err(err).
			Int("year", year).
			Int("month", month).
			Msg("failed to invalidate cached leaderboard")
	}
}
