package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/storefront-go/shop-backend/internal/kafka"
	"github.com/storefront-go/shop-backend/internal/orders"
	"github.com/storefront-go/shop-backend/internal/redisx"
)

// Service reacts to committed orders: dedups redelivered events, keeps the
// order summary warm in redis, and logs a confirmation line. Stock work stays
// inside the placement transaction; nothing here mutates inventory.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil // ignore
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	seen, err := s.Redis.Exists(ctx, dkey).Result()
	if err == nil && seen > 0 {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	// Cache the same representation the API writes: the read endpoint serves
	// these bytes verbatim, so the payload shape must never land here.
	o, err := p.Order()
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeyOrder, o.ID)
	if err := s.Redis.Set(ctx, key, kafkax.MustMarshal(o), redisx.TTLOrderCache).Err(); err != nil {
		return err
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	log.Printf("order placed: id=%s user=%d total=%s tx=%s", p.OrderID, p.UserID, p.TotalPrice, p.TransactionID)
	return nil
}
