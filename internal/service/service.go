// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deppfellow/rowboard/internal/model"
)

type RowStore interface {
	List(ctx context.Context) ([]model.RowWithRegistrations, error)
	Create(ctx context.Context, name string) (model.Row, error)
	Update(ctx context.Context, id int, name string) (bool, error)
	Delete(ctx context.Context, id int) error
}

type RegistrationStore interface {
	Create(ctx context.Context, reg model.Registration) (bool, error)
	Delete(ctx context.Context, reg model.Registration) error
}

type LeaderboardStore interface {
	ForMonth(ctx context.Context, year, month int) ([]model.LeaderboardEntry, error)
}

// loggerFrom prefers the request-scoped logger carried by ctx.
func loggerFrom(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return fallback
}
