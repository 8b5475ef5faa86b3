package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const DefaultDebounce = 150 * time.Millisecond

// Subscription watches the change feed for a single room and invokes the
// caller's refresh callback on every change, coalescing bursts. It lives
// until Close or until the context given to Subscribe is cancelled, which is
// how the SSE handler ties its lifetime to the client connection.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Subscribe opens a feed reader scoped to roomID. Each subscription gets its
// own consumer group reading from the latest offset: every watcher sees every
// change, and nobody replays history on connect.
func Subscribe(ctx context.Context, brokers []string, roomID string, debounce time.Duration, onUpdate func()) *Subscription {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       Topic,
		GroupID:     "feed-sub-" + uuid.NewString(),
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    1 << 20,
	})

	changes := make(chan struct{}, 1)

	go func() {
		defer close(changes)
		defer reader.Close()
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					slog.Error("feed read error", "room_id", roomID, "error", err)
				}
				return
			}
			if string(msg.Key) != roomID {
				continue
			}
			var ev Event
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				slog.Warn("feed: dropping malformed event", "error", err)
				continue
			}
			select {
			case changes <- struct{}{}:
			default:
			}
		}
	}()

	go func() {
		defer close(sub.done)
		Coalesce(ctx, changes, debounce, onUpdate)
	}()

	return sub
}

func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

// Coalesce fires fn once per burst of signals: the first signal opens a
// window of the given length, further signals inside the window are
// absorbed. A reorder's two row updates therefore trigger one refetch, not
// two.
func Coalesce(ctx context.Context, in <-chan struct{}, window time.Duration, fn func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-in:
			if !ok {
				return
			}
			timer := time.NewTimer(window)
		drain:
			for {
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case _, ok := <-in:
					if !ok {
						timer.Stop()
						fn()
						return
					}
				case <-timer.C:
					break drain
				}
			}
			fn()
		}
	}
}
