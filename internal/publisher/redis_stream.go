package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream names. Downstream consumers (bots, dashboards) read these.
const (
	PredictionStream = "predictions.basketball_nba"
	SlateStream      = "predictions.slate.basketball_nba"
)

// RedisStreamPublisher publishes prediction events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// PublishPrediction publishes one matchup prediction to the stream
func (rsp *RedisStreamPublisher) PublishPrediction(ctx context.Context, prediction interface{}) error {
	return rsp.publish(ctx, PredictionStream, prediction)
}

// PublishSlate publishes a full day's predictions as one event
func (rsp *RedisStreamPublisher) PublishSlate(ctx context.Context, slate interface{}) error {
	return rsp.publish(ctx, SlateStream, slate)
}

func (rsp *RedisStreamPublisher) publish(ctx context.Context, streamName string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return rsp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
