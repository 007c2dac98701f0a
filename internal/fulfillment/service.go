// Package fulfillment consumes order.created events and prepares each new
// order for shipping: it fetches a delivery estimate for the order and
// caches it where the storefront can pick it up.
package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/xplaxcerx/CVB1/internal/delivery"
	"github.com/xplaxcerx/CVB1/internal/kafkax"
	"github.com/xplaxcerx/CVB1/internal/redisx"
	"github.com/xplaxcerx/CVB1/internal/store"
)

type Service struct {
	Delivery    delivery.Client
	Redis       *redis.Client
	Producer    *kafkax.Producer // publishes order.shipping.quoted
	ServiceName string

	// Destination used for the estimate; orders carry no address yet.
	DefaultCity string
}

// HandleOrderCreated runs as the consumer handler.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env store.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != store.EventOrderCreated {
		return nil
	}

	// Dedup by event id so redelivered messages are quoted once.
	dkey := fmt.Sprintf(redisx.KeyDedup, "fulfillment", env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[store.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	items := make([]delivery.QuoteItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, delivery.QuoteItem{Quantity: it.Quantity})
	}
	city := s.DefaultCity
	if city == "" {
		city = "Moscow"
	}
	quote := s.Delivery.Quote(ctx, delivery.QuoteRequest{
		City:         city,
		DeliveryType: delivery.TypeDoor,
		Items:        items,
	})

	qkey := fmt.Sprintf(redisx.KeyOrderShipping, p.OrderID)
	_ = s.Redis.Set(ctx, qkey, kafkax.MustMarshal(quote), redisx.TTLShippingQuote).Err()

	return s.publishQuoted(p.OrderID, quote, env.TraceID)
}

func (s *Service) publishQuoted(orderID int64, q delivery.Quote, trace string) error {
	if s.Producer == nil {
		return nil
	}
	ev := store.Envelope{
		EventID:      uuid.NewString(),
		EventType:    store.EventShippingQuoted,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     s.ServiceName,
		TraceID:      trace,
		Payload: kafkax.MustMarshal(store.ShippingQuotedPayload{
			OrderID:      orderID,
			DeliveryCost: q.DeliveryCost,
			DeliveryDays: q.DeliveryDays,
			TariffName:   q.TariffName,
		}),
	}
	s.Producer.Publish(store.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(store.EventShippingQuoted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	return nil
}
