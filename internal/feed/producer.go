package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Topic carries every comanda/room change. Messages are keyed by room id so
// subscribers can filter to the room they are watching.
const Topic = "comanda_events"

const (
	EventItemAdded       = "item_added"
	EventItemUpdated     = "item_updated"
	EventItemDeleted     = "item_deleted"
	EventItemsReordered  = "items_reordered"
	EventUserItemsPurged = "user_items_deleted"
	EventRoomDeleted     = "room_deleted"
)

type Event struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
	ItemID int    `json:"item_id,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

type Producer struct {
	writer *kafka.Writer
}

// NewProducer returns nil when no brokers are configured; a nil producer
// swallows publishes so CRUD keeps working without the change feed.
func NewProducer(brokers []string) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  Topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Producer) PublishEvent(ctx context.Context, event Event) error {
	if p == nil || p.writer == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("feed: json.Marshal failed: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RoomID),
		Value: data,
	}); err != nil {
		return fmt.Errorf("feed: write to %s failed: %w", Topic, err)
	}

	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
