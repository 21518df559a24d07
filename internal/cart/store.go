package cart

import (
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrCartNotFound is returned when no cart exists for an id.
var ErrCartNotFound = errors.New("cart not found")

// Store keeps the open carts of this process, keyed by an opaque id handed
// out to the client. Every cart it creates is subscribed to the store's
// listeners.
type Store struct {
	mu        sync.RWMutex
	carts     map[string]*Cart
	listeners []Listener
}

func NewStore(listeners ...Listener) *Store {
	return &Store{
		carts:     make(map[string]*Cart),
		listeners: listeners,
	}
}

// Create opens a new empty cart.
func (s *Store) Create() *Cart {
	c := New(uuid.NewString())
	for _, l := range s.listeners {
		c.Subscribe(l)
	}

	s.mu.Lock()
	s.carts[c.ID()] = c
	s.mu.Unlock()
	return c
}

// Get returns the cart with the given id or ErrCartNotFound.
func (s *Store) Get(id string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[id]
	if !ok {
		return nil, ErrCartNotFound
	}
	return c, nil
}
