package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/ariefcatur/go-parts-shop/internal/events"
	kafkax "github.com/ariefcatur/go-parts-shop/internal/kafka"
	"github.com/ariefcatur/go-parts-shop/internal/redisx"
	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"strconv"
)

// Service counts how often each part is put into a cart.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleCartItemAdded is installed as the consumer handler.
func (s *Service) HandleCartItemAdded(ctx context.Context, m kafkago.Message) error {
	if t := kafkax.HeaderValue(m, kafkax.HeaderEventType); t != "" && t != events.EventCartItemAdded {
		return nil
	}

	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return errors.Wrap(err, "decode envelope")
	}
	if env.EventType != events.EventCartItemAdded {
		return nil
	}

	p, err := kafkax.UnwrapPayload[events.CartItemAddedPayload](env.Payload)
	if err != nil {
		return err
	}

	// dedup by event_id; a redelivered event is acknowledged without counting
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	first, err := redisx.Claim(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	_, err = s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, redisx.KeyCartAdds, strconv.Itoa(p.PartID), 1)
		pipe.Incr(ctx, redisx.KeyCartAddsTotal)
		return nil
	})
	if err != nil {
		// release the claim so a redelivery can count it
		_ = s.Redis.Del(ctx, dkey).Err()
		return err
	}
	return nil
}

// Counts returns the number of adds per part id.
func (s *Service) Counts(ctx context.Context) (map[int]int64, error) {
	raw, err := s.Redis.HGetAll(ctx, redisx.KeyCartAdds).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[int]int64, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, errors.Wrapf(err, "part id %q", k)
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "count for part %d", id)
		}
		out[id] = n
	}
	return out, nil
}

// Total returns the number of adds across all parts.
func (s *Service) Total(ctx context.Context) (int64, error) {
	n, err := s.Redis.Get(ctx, redisx.KeyCartAddsTotal).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}
