package catalog

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	// ErrCatalogUnavailable is returned when the source cannot be read, for
	// example a missing file, a permission error or a timeout.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrCatalogMalformed is returned when the source was read but does not
	// decode into a valid product list.
	ErrCatalogMalformed = errors.New("catalog malformed")
	// ErrProductNotFound is a negative lookup result, not a load failure.
	ErrProductNotFound = errors.New("product not found")
)

// SourceError reports a failed load. errors.Is matches it against its Kind.
type SourceError struct {
	Source string
	Kind   error
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func (e *SourceError) Is(target error) bool { return target == e.Kind }

func unavailable(source string, err error) error {
	return &SourceError{Source: source, Kind: ErrCatalogUnavailable, Err: err}
}

func malformed(source string, err error) error {
	return &SourceError{Source: source, Kind: ErrCatalogMalformed, Err: err}
}
