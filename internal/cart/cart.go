package cart

import (
	"sync"

	"github.com/ariefcatur/go-parts-shop/internal/catalog"
	"github.com/shopspring/decimal"
)

// Event describes the cart right after a committed Add.
type Event struct {
	CartID string
	Entry  catalog.Product
	Count  int
	Total  decimal.Decimal
}

// Listener is called synchronously after every Add. It may read the cart but
// must not call Add on it.
type Listener func(Event)

// Cart is an append-only list of product snapshots owned by one consumer.
// It is safe for concurrent use.
type Cart struct {
	id string

	// notifyMu serialises Add end to end so listeners see events in commit order.
	notifyMu sync.Mutex

	mu        sync.RWMutex
	items     []catalog.Product
	listeners []subscription
	nextSub   int
}

type subscription struct {
	id int
	fn Listener
}

func New(id string) *Cart {
	return &Cart{id: id}
}

func (c *Cart) ID() string { return c.id }

// Add appends a copy of p and notifies listeners before returning. p is not
// checked against any catalog.
func (c *Cart) Add(p catalog.Product) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	c.items = append(c.items, p.Clone())
	ev := Event{
		CartID: c.id,
		Entry:  c.items[len(c.items)-1].Clone(),
		Count:  len(c.items),
		Total:  c.totalLocked(),
	}
	subs := append([]subscription(nil), c.listeners...)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

// Items returns a copy of the entries in insertion order.
func (c *Cart) Items() []catalog.Product {
	items, _ := c.Snapshot()
	return items
}

// Snapshot returns Items and Total taken under one lock.
func (c *Cart) Snapshot() ([]catalog.Product, decimal.Decimal) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]catalog.Product, len(c.items))
	for i, p := range c.items {
		out[i] = p.Clone()
	}
	return out, c.totalLocked()
}

func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Total is the exact sum of entry prices; zero for an empty cart.
func (c *Cart) Total() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalLocked()
}

func (c *Cart) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.items {
		total = total.Add(p.Price)
	}
	return total
}

// Subscribe registers l for change events. The returned func removes it and
// is safe to call more than once.
func (c *Cart) Subscribe(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.listeners = append(c.listeners, subscription{id: id, fn: l})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.listeners {
				if s.id == id {
					c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
					break
				}
			}
		})
	}
}
