package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes job progress events for live observers (the WS feed).
// Delivery is fire-and-forget; the pipeline never blocks on a listener.
type Notifier interface {
	JobEvent(ctx context.Context, jobID, event string, fields map[string]any)
}

// JobChannel is the redis pub/sub channel carrying one job's events.
func JobChannel(jobID string) string { return "jobs:" + jobID + ":events" }

type redisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) Notifier {
	return &redisNotifier{rdb: rdb}
}

func (n *redisNotifier) JobEvent(ctx context.Context, jobID, event string, fields map[string]any) {
	payload := map[string]any{
		"type":   event,
		"job_id": jobID,
		"ts":     time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range fields {
		payload[k] = v
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = n.rdb.Publish(ctx, JobChannel(jobID), string(b)).Err()
}
