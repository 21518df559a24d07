package events

import (
	"time"

	"github.com/ariefcatur/go-parts-shop/internal/cart"
	kafkax "github.com/ariefcatur/go-parts-shop/internal/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher is satisfied by *kafkax.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// CartPublisher turns cart change events into CartItemAdded messages.
type CartPublisher struct {
	Producer Publisher
	Service  string
}

// Listen is a cart.Listener.
func (p *CartPublisher) Listen(ev cart.Event) {
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventCartItemAdded,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      p.Service,
		CorrelationID: ev.CartID,
		Payload: kafkax.MustMarshal(CartItemAddedPayload{
			CartID:     ev.CartID,
			PartID:     ev.Entry.ID,
			PartNumber: ev.Entry.PartNumber,
			Price:      ev.Entry.Price.StringFixed(2),
			ItemCount:  ev.Count,
			Total:      ev.Total.StringFixed(2),
		}),
	}
	p.Producer.Publish(PartitionKey(ev.CartID), kafkax.MustMarshal(env),
		kafkax.EventHeaders(EventCartItemAdded, env.EventVersion)...)
}

var _ cart.Listener = (&CartPublisher{}).Listen
