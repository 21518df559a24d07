package catalog

import (
	"context"
	"os"
	"time"

	"github.com/ariefcatur/go-parts-shop/internal/redisx"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

// Source yields the raw catalog document, a JSON array of products.
// Read failures must be reported as ErrCatalogUnavailable.
type Source interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// FileSource reads the catalog from a flat file. The read is not
// interruptible; ctx is only checked before it starts.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(s.Name(), err)
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, unavailable(s.Name(), err)
	}
	return b, nil
}

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSource reads the read-only auto_parts table, one jsonb document per
// row, and aggregates it into a single array in position order.
type PostgresSource struct {
	DB Querier
}

const selectCatalog = `SELECT COALESCE(json_agg(doc ORDER BY position), '[]'::json) FROM auto_parts`

func (s PostgresSource) Name() string { return "postgres:auto_parts" }

func (s PostgresSource) Read(ctx context.Context) ([]byte, error) {
	var b []byte
	if err := s.DB.QueryRow(ctx, selectCatalog).Scan(&b); err != nil {
		return nil, unavailable(s.Name(), err)
	}
	return b, nil
}

// RedisCache serves the raw document from Redis and fills it from the wrapped
// source on a miss. Redis failures fall through to the source. A zero TTL
// means redisx.TTLCatalog.
type RedisCache struct {
	Source Source
	Redis  *redis.Client
	TTL    time.Duration
}

func (c RedisCache) Name() string { return "redis+" + c.Source.Name() }

func (c RedisCache) Read(ctx context.Context) ([]byte, error) {
	b, err := c.Redis.Get(ctx, redisx.KeyCatalogRaw).Bytes()
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, redis.Nil) {
		logf("catalog cache get: %v", err)
	}

	b, err = c.Source.Read(ctx)
	if err != nil {
		return nil, err
	}
	// only well-formed documents are cached
	if _, derr := Decode(b); derr == nil {
		if err := c.Redis.Set(ctx, redisx.KeyCatalogRaw, b, c.ttl()).Err(); err != nil {
			logf("catalog cache set: %v", err)
		}
	}
	return b, nil
}

func (c RedisCache) ttl() time.Duration {
	if c.TTL <= 0 {
		return redisx.TTLCatalog
	}
	return c.TTL
}

// Invalidate drops the cached document so the next Read hits the source.
func (c RedisCache) Invalidate(ctx context.Context) error {
	return c.Redis.Del(ctx, redisx.KeyCatalogRaw).Err()
}
