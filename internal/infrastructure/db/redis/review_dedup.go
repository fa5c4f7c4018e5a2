package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

const defaultDedupWindow = 10 * time.Minute

// ReviewDedup remembers recent review submissions so a double submit returns
// the first review. Key format: review:dedup:<user_id>:<product_id>:<sha256(rating|content)>
type ReviewDedup struct {
	client *redis.Client
	window time.Duration
}

// NewReviewDedup creates a ReviewDedup wrapping the given Redis client.
// A non-positive window falls back to defaultDedupWindow.
func NewReviewDedup(client *redis.Client, window time.Duration) *ReviewDedup {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &ReviewDedup{client: client, window: window}
}

// Seen returns the id of an identical review submitted within the window.
func (d *ReviewDedup) Seen(ctx context.Context, userID, productID string, f domain.ReviewFields) (string, bool, error) {
	id, err := d.client.Get(ctx, d.key(userID, productID, f)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("review dedup check: %w", err)
	}
	return id, true, nil
}

// Remember records reviewID for the submission (expires after the window).
func (d *ReviewDedup) Remember(ctx context.Context, userID, productID string, f domain.ReviewFields, reviewID string) error {
	return d.client.Set(ctx, d.key(userID, productID, f), reviewID, d.window).Err()
}

func (d *ReviewDedup) key(userID, productID string, f domain.ReviewFields) string {
	sum := sha256.Sum256([]byte(strconv.Itoa(f.Rating) + "|" + f.Content))
	return fmt.Sprintf("review:dedup:%s:%s:%s", userID, productID, hex.EncodeToString(sum[:]))
}
