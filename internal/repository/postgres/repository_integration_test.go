//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // драйвер pgx для goose
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shestoi/magazyn/internal/repository"
	"github.com/shestoi/magazyn/migrations"
)

func TestRepository_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("magazyn"),
		postgres.WithUsername("magazyn_user"),
		postgres.WithPassword("magazyn_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, container.Terminate(ctx))
	}()

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, migrations.Up(ctx, db), "Failed to run migrations")

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	repo := NewRepository(pool, "")

	t.Run("Empty table", func(t *testing.T) {
		items, err := repo.SelectAll(ctx)
		require.NoError(t, err)
		require.NotNil(t, items)
		require.Empty(t, items)
		require.NoError(t, repo.Ping(ctx))
	})

	t.Run("Insert and SelectOrdered", func(t *testing.T) {
		require.NoError(t, repo.Insert(ctx, repository.NewItem{
			Name: "Hammer", Quantity: 5, UnitPrice: decimal.RequireFromString("12.50"),
			AddedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		}))
		require.NoError(t, repo.Insert(ctx, repository.NewItem{
			Name: "Nails", Quantity: 2, UnitPrice: decimal.RequireFromString("3.00"),
			AddedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		}))

		items, err := repo.SelectOrdered(ctx, repository.ColumnAddedAt, true)
		require.NoError(t, err)
		require.Len(t, items, 2)
		require.Equal(t, "Nails", items[0].Name)
		require.Equal(t, "Hammer", items[1].Name)
		require.Equal(t, 5, items[1].Quantity)
		require.Equal(t, "12.50", items[1].UnitPrice.StringFixed(2))
		require.Equal(t, "2024-01-15", repository.FormatDate(items[1].AddedAt))
	})

	t.Run("Unknown order column", func(t *testing.T) {
		_, err := repo.SelectOrdered(ctx, "created_at", true)
		require.True(t, errors.Is(err, repository.ErrOrderingUnsupported), "got %v", err)
	})

	t.Run("Update and idempotent Delete", func(t *testing.T) {
		items, err := repo.SelectAll(ctx)
		require.NoError(t, err)
		id := items[0].ID

		require.NoError(t, repo.UpdateQuantity(ctx, id, 1))
		require.NoError(t, repo.Delete(ctx, id))
		require.NoError(t, repo.Delete(ctx, id))

		items, err = repo.SelectAll(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.NotEqual(t, id, items[0].ID)
	})

	t.Run("Zero quantity rejected by schema", func(t *testing.T) {
		items, err := repo.SelectAll(ctx)
		require.NoError(t, err)

		err = repo.UpdateQuantity(ctx, items[0].ID, 0)
		require.ErrorIs(t, err, repository.ErrRejected)

		err = repo.Insert(ctx, repository.NewItem{Name: "Huge", Quantity: 1 << 40, UnitPrice: decimal.NewFromInt(1), AddedAt: time.Now()})
		require.ErrorIs(t, err, repository.ErrRejected)
	})
}
