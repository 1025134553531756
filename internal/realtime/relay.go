package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/statusdeck/statusdeck/internal/models"
)

const actionsChannel = "statusdeck:actions"

// Relay carries action broadcasts across server instances. The hub's
// in-memory room table is process-local; without a relay, clients connected
// to other instances miss actions recorded here.
type Relay interface {
	Publish(action *models.UserAction) error
}

// RedisRelay publishes actions to a shared Redis channel and feeds received
// ones back into the local hub.
type RedisRelay struct {
	client *redis.Client
}

func NewRedisRelay(client *redis.Client) *RedisRelay {
	return &RedisRelay{client: client}
}

func (r *RedisRelay) Publish(action *models.UserAction) error {
	payload, err := json.Marshal(action)

	if err != nil {
		return err
	}

	return r.client.Publish(context.Background(), actionsChannel, payload).Err()
}

// Subscribe consumes the shared channel and delivers each action to the
// hub's local rooms. Runs until ctx is cancelled; call in a goroutine.
func (r *RedisRelay) Subscribe(ctx context.Context, hub *Hub) {
	pubsub := r.client.Subscribe(ctx, actionsChannel)
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}

			var action models.UserAction

			if err := json.Unmarshal([]byte(msg.Payload), &action); err != nil {
				log.Printf("Failed to decode relayed action: %v", err)
				continue
			}

			hub.Deliver(&action)
		}
	}
}
