package catalog

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/singleflight"
)

var logf = log.Printf

// sharedReadTimeout bounds a read shared by concurrent callers. The read does
// not follow any single caller's cancellation.
const sharedReadTimeout = 30 * time.Second

// Loader loads the catalog from a Source and answers lookups against it.
//
// With caching enabled (the default) the parsed catalog is kept until Reload.
// Without it every call re-reads and re-parses the source. Concurrent loads
// share a single read either way.
type Loader struct {
	src   Source
	cache bool

	group    singleflight.Group
	mu       sync.RWMutex
	products []Product
}

type Option func(*Loader)

// WithCache toggles in-memory caching of the parsed catalog.
func WithCache(on bool) Option {
	return func(l *Loader) { l.cache = on }
}

func NewLoader(src Source, opts ...Option) *Loader {
	l := &Loader{src: src, cache: true}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load returns every product in source order. The slice and its elements are
// copies owned by the caller.
func (l *Loader) Load(ctx context.Context) ([]Product, error) {
	ps, err := l.catalog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out, nil
}

// ProductByID returns the first product with the given id, or
// ErrProductNotFound. Load failures are returned as is.
func (l *Loader) ProductByID(ctx context.Context, id int) (Product, error) {
	ps, err := l.catalog(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range ps {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return Product{}, errors.Wrapf(ErrProductNotFound, "id %d", id)
}

// Reload discards the cached catalog, including any cache kept by the source,
// and loads it again.
func (l *Loader) Reload(ctx context.Context) error {
	if inv, ok := l.src.(interface{ Invalidate(context.Context) error }); ok {
		if err := inv.Invalidate(ctx); err != nil {
			logf("catalog invalidate %s: %v", l.src.Name(), err)
		}
	}

	ps, err := l.read(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.products = ps
	l.mu.Unlock()
	logf("catalog reloaded: %d parts from %s", len(ps), l.src.Name())
	return nil
}

func (l *Loader) catalog(ctx context.Context) ([]Product, error) {
	if l.cache {
		l.mu.RLock()
		ps := l.products
		l.mu.RUnlock()
		if ps != nil {
			return ps, nil
		}
	}

	ch := l.group.DoChan("catalog", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedReadTimeout)
		defer cancel()

		ps, err := l.read(rctx)
		if err != nil {
			return nil, err
		}
		if l.cache {
			l.mu.Lock()
			if l.products == nil {
				l.products = ps
				logf("catalog loaded: %d parts from %s", len(ps), l.src.Name())
			}
			ps = l.products
			l.mu.Unlock()
		}
		return ps, nil
	})

	select {
	case <-ctx.Done():
		return nil, unavailable(l.src.Name(), ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]Product), nil
	}
}

func (l *Loader) read(ctx context.Context) ([]Product, error) {
	raw, err := l.src.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrCatalogUnavailable) || errors.Is(err, ErrCatalogMalformed) {
			return nil, err
		}
		return nil, unavailable(l.src.Name(), err)
	}
	ps, err := Decode(raw)
	if err != nil {
		return nil, malformed(l.src.Name(), err)
	}
	return ps, nil
}
