package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ariefcatur/go-parts-shop/internal/postgres"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real database when POSTGRES_TEST_DSN is set.
func TestPostgresSource(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(context.Background()) }()

	_, err = tx.Exec(ctx, `CREATE TEMP TABLE auto_parts (position int PRIMARY KEY, doc jsonb NOT NULL) ON COMMIT DROP`)
	require.NoError(t, err)

	l := NewLoader(PostgresSource{DB: tx}, WithCache(false))
	ps, err := l.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, ps)

	_, err = tx.Exec(ctx, `INSERT INTO auto_parts(position, doc) VALUES
		(2, '{"Id": 3, "Name": "Spark Plug", "Price": 0.20}'),
		(1, '{"id": 1, "name": "Brake Pad Set", "price": 49.99}')`)
	require.NoError(t, err)

	ps, err = l.Load(ctx)
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, 1, ps[0].ID)
	assert.Equal(t, 3, ps[1].ID)

	_, err = l.ProductByID(ctx, 2)
	assert.True(t, errors.Is(err, ErrProductNotFound))

	cancel()
	_, err = l.Load(ctx)
	assert.True(t, errors.Is(err, ErrCatalogUnavailable))
}
