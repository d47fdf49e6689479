package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/esports-bet-engine/pkg/contracts/events"
)

// KafkaPublisher emite os eventos do motor de apostas. Publicação acontece
// sempre depois do commit no banco; falha aqui nunca desfaz dinheiro.
type KafkaPublisher struct {
	PlacedWriter  *kafka.Writer
	SettledWriter *kafka.Writer
}

func NewKafkaPublisher(placed, settled *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{PlacedWriter: placed, SettledWriter: settled}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.PlacedWriter.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b})
}

func (p *KafkaPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	if e.Ts.IsZero() {
		e.Ts = time.Now().UTC()
	}
	b, _ := json.Marshal(e)
	return p.SettledWriter.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b})
}

func (p *KafkaPublisher) PublishMatchSettled(ctx context.Context, e events.MatchSettled) error {
	if e.Ts.IsZero() {
		e.Ts = time.Now().UTC()
	}
	b, _ := json.Marshal(e)
	return p.SettledWriter.WriteMessages(ctx, kafka.Message{Key: []byte(e.MatchID), Value: b})
}

// NopPublisher descarta eventos; usado no modo memory/demo sem Kafka.
type NopPublisher struct{}

func (NopPublisher) PublishBetPlaced(context.Context, events.BetPlaced) error   { return nil }
func (NopPublisher) PublishBetSettled(context.Context, events.BetSettled) error { return nil }
func (NopPublisher) PublishMatchSettled(context.Context, events.MatchSettled) error {
	return nil
}
