package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// deliveryQueueKey is the Redis list backing the OTP delivery queue.
const deliveryQueueKey = "notify:otp:queue"

// ErrQueueEmpty is returned by DequeueDelivery when no job arrives before
// the block timeout.
var ErrQueueEmpty = errors.New("delivery queue empty")

// DeliveryJob is a queued OTP delivery.
type DeliveryJob struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Attempts int    `json:"attempts"`
}

// EnqueueDelivery pushes an OTP delivery job onto the queue.
func (c *Cache) EnqueueDelivery(ctx context.Context, job DeliveryJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal delivery job: %w", err)
	}
	if err := c.client.RPush(ctx, deliveryQueueKey, data).Err(); err != nil {
		return fmt.Errorf("enqueue delivery: %w", err)
	}
	return nil
}

// DequeueDelivery pops the next delivery job, blocking up to timeout.
// Returns ErrQueueEmpty on timeout.
func (c *Cache) DequeueDelivery(ctx context.Context, timeout time.Duration) (*DeliveryJob, error) {
	res, err := c.client.BLPop(ctx, timeout, deliveryQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrQueueEmpty
		}
		return nil, fmt.Errorf("dequeue delivery: %w", err)
	}

	// BLPop returns [key, value]
	if len(res) != 2 {
		return nil, ErrQueueEmpty
	}

	var job DeliveryJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("unmarshal delivery job: %w", err)
	}
	return &job, nil
}

// DeliveryQueueDepth reports the number of pending delivery jobs.
func (c *Cache) DeliveryQueueDepth(ctx context.Context) (int64, error) {
	return c.client.LLen(ctx, deliveryQueueKey).Result()
}
