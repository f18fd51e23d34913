package location

import (
	"context"
	"encoding/json"

	"github.com/ecoexplorer/core/internal/pkg/redis"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const feedChannel = "locations:changed"

type changeMessage struct {
	Origin string `json:"origin"`
	ID     string `json:"id"`
}

// ChangeFeed fans mutations out to other instances over redis pub/sub.
type ChangeFeed struct {
	client *redis.Client
	origin string
	logger *zap.Logger
}

func NewChangeFeed(client *redis.Client, logger *zap.Logger) *ChangeFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeFeed{client: client, origin: uuid.NewString(), logger: logger.Named("ChangeFeed")}
}

func (f *ChangeFeed) Publish(ctx context.Context, id string) error {
	payload, err := json.Marshal(changeMessage{Origin: f.origin, ID: id})
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, feedChannel, payload)
}

// Listen calls onChange for every change published by another instance
// until ctx is done. ready, if non-nil, is closed once subscribed.
func (f *ChangeFeed) Listen(ctx context.Context, onChange func(id string), ready chan<- struct{}) error {
	sub := f.client.Subscribe(ctx, feedChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var m changeMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				f.logger.Debug("ignoring malformed change message", zap.Error(err))
				continue
			}
			if m.Origin == f.origin {
				continue
			}
			onChange(m.ID)
		}
	}
}
