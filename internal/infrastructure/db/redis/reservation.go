package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const reservationTTL = 30 * time.Second

// releaseScript deletes the key only while it still holds the caller's token,
// so a claim that expired and was re-taken is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// EmailReservation holds short-lived registration locks backed by Redis.
// Key format: register:email:<email>, value: a random per-claim token.
type EmailReservation struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewEmailReservation creates an EmailReservation wrapping the given client.
func NewEmailReservation(client redis.Cmdable) *EmailReservation {
	return &EmailReservation{client: client, ttl: reservationTTL}
}

// Reserve claims email for one registration and returns the token that must
// be handed back to Release. ok is false when another registration already
// holds it. The claim expires after the TTL even if it is never released.
func (r *EmailReservation) Reserve(ctx context.Context, email string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, r.key(email), token, r.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("reserve email: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the claim on email if token still owns it.
func (r *EmailReservation) Release(ctx context.Context, email, token string) error {
	if err := releaseScript.Run(ctx, r.client, []string{r.key(email)}, token).Err(); err != nil {
		return fmt.Errorf("release email: %w", err)
	}
	return nil
}

func (r *EmailReservation) key(email string) string {
	return "register:email:" + email
}
