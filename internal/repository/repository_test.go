package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/deppfellow/rowboard/internal/database"
	"github.com/deppfellow/rowboard/internal/model"
)

// newTestPool starts a throwaway Postgres, applies the embedded
// migrations and returns a pool connected to it.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping Postgres integration test in short mode")
	}

	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("rowboard"),
		postgres.WithUsername("rowboard"),
		postgres.WithPassword("secret"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := zerolog.Nop()
	require.NoError(t, database.Migrate(ctx, &logger, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `TRUNCATE registrations, rows RESTART IDENTITY`)
	require.NoError(t, err)
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRepositories(t *testing.T) {
	pool := newTestPool(t)
	repos := NewRepositoriesWithDB(pool)
	ctx := context.Background()

	t.Run("create and list rows", func(t *testing.T) {
		truncate(t, pool)

		alice, err := repos.Rows.Create(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, model.Row{ID: 1, Name: "Alice"}, alice)

		bob, err := repos.Rows.Create(ctx, "Bob")
		require.NoError(t, err)
		assert.Greater(t, bob.ID, alice.ID)

		_, err = repos.Registrations.Create(ctx, model.Registration{RowID: alice.ID, Date: date("2024-03-07")})
		require.NoError(t, err)
		_, err = repos.Registrations.Create(ctx, model.Registration{RowID: alice.ID, Date: date("2024-03-05")})
		require.NoError(t, err)

		rows, err := repos.Rows.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.RowWithRegistrations{
			{ID: alice.ID, Name: "Alice", Registrations: []string{"2024-03-05", "2024-03-07"}},
			{ID: bob.ID, Name: "Bob", Registrations: []string{}},
		}, rows)
	})

	t.Run("list without rows is empty, not nil", func(t *testing.T) {
		truncate(t, pool)

		rows, err := repos.Rows.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("update row", func(t *testing.T) {
		truncate(t, pool)

		row, err := repos.Rows.Create(ctx, "Alice")
		require.NoError(t, err)

		updated, err := repos.Rows.Update(ctx, row.ID, "Alicia")
		require.NoError(t, err)
		assert.True(t, updated)

		rows, err := repos.Rows.List(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Alicia", rows[0].Name)

		updated, err = repos.Rows.Update(ctx, 999, "Nobody")
		require.NoError(t, err)
		assert.False(t, updated)
	})

	t.Run("delete row cascades registrations", func(t *testing.T) {
		truncate(t, pool)

		row, err := repos.Rows.Create(ctx, "Alice")
		require.NoError(t, err)
		_, err = repos.Registrations.Create(ctx, model.Registration{RowID: row.ID, Date: date("2024-03-05")})
		require.NoError(t, err)

		require.NoError(t, repos.Rows.Delete(ctx, row.ID))

		var count int
		require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&count))
		assert.Zero(t, count)

		assert.ErrorIs(t, repos.Rows.Delete(ctx, row.ID), pgx.ErrNoRows)
	})

	t.Run("registration is inserted at most once", func(t *testing.T) {
		truncate(t, pool)

		row, err := repos.Rows.Create(ctx, "Alice")
		require.NoError(t, err)
		reg := model.Registration{RowID: row.ID, Date: date("2024-03-05")}

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			created int
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := repos.Registrations.Create(ctx, reg)
				assert.NoError(t, err)
				if ok {
					mu.Lock()
					created++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, created)

		ok, err := repos.Registrations.Create(ctx, reg)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("registration for unknown row violates foreign key", func(t *testing.T) {
		truncate(t, pool)

		_, err := repos.Registrations.Create(ctx, model.Registration{RowID: 42, Date: date("2024-03-05")})

		var pgErr *pgconn.PgError
		require.True(t, errors.As(err, &pgErr))
		assert.Equal(t, "23503", pgErr.Code)
	})

	t.Run("delete registration", func(t *testing.T) {
		truncate(t, pool)

		row, err := repos.Rows.Create(ctx, "Alice")
		require.NoError(t, err)
		reg := model.Registration{RowID: row.ID, Date: date("2024-03-05")}
		_, err = repos.Registrations.Create(ctx, reg)
		require.NoError(t, err)

		require.NoError(t, repos.Registrations.Delete(ctx, reg))
		assert.ErrorIs(t, repos.Registrations.Delete(ctx, reg), pgx.ErrNoRows)
	})

	t.Run("leaderboard", func(t *testing.T) {
		truncate(t, pool)

		alice, err := repos.Rows.Create(ctx, "Alice")
		require.NoError(t, err)
		bob, err := repos.Rows.Create(ctx, "Bob")
		require.NoError(t, err)
		carol, err := repos.Rows.Create(ctx, "Carol")
		require.NoError(t, err)

		for _, reg := range []model.Registration{
			{RowID: bob.ID, Date: date("2024-03-01")},
			{RowID: bob.ID, Date: date("2024-03-31")},
			{RowID: alice.ID, Date: date("2024-03-05")},
			{RowID: alice.ID, Date: date("2024-04-01")},
			{RowID: carol.ID, Date: date("2024-02-29")},
		} {
			_, err := repos.Registrations.Create(ctx, reg)
			require.NoError(t, err)
		}

		entries, err := repos.Leaderboard.ForMonth(ctx, 2024, 3)
		require.NoError(t, err)
		assert.Equal(t, []model.LeaderboardEntry{
			{ID: bob.ID, Name: "Bob", Total: 2},
			{ID: alice.ID, Name: "Alice", Total: 1},
			{ID: carol.ID, Name: "Carol", Total: 0},
		}, entries)

		empty, err := repos.Leaderboard.ForMonth(ctx, 2023, 12)
		require.NoError(t, err)
		assert.Equal(t, []model.LeaderboardEntry{
			{ID: alice.ID, Name: "Alice", Total: 0},
			{ID: bob.ID, Name: "Bob", Total: 0},
			{ID: carol.ID, Name: "Carol", Total: 0},
		}, empty)
	})
}
