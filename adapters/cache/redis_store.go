package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openclip/walletgate/core"
	"github.com/openclip/walletgate/ports"
)

// consumedRetention is the minimum time a consumed-nonce marker is kept so
// a replay inside the challenge validity window is distinguishable from an
// expired challenge. Markers for challenges with a longer TTL live until
// the challenge itself would have expired.
const consumedRetention = 15 * time.Minute

// RedisChallengeStore tracks pending and consumed sign-in nonces in Redis.
type RedisChallengeStore struct {
	client *redis.Client
	prefix string
}

func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{
		client: client,
		prefix: "walletgate:challenge:",
	}
}

var _ ports.ChallengeStore = (*RedisChallengeStore)(nil)

func (s *RedisChallengeStore) Issue(ctx context.Context, nonce string, ttl time.Duration) error {
	// The pending value carries the challenge deadline so Consume can size
	// the replay marker to the remaining validity window.
	deadline := time.Now().Add(ttl).Unix()
	return s.client.Set(ctx, s.prefix+"pending:"+nonce, strconv.FormatInt(deadline, 10), ttl).Err()
}

func (s *RedisChallengeStore) Consume(ctx context.Context, nonce string) error {
	pending := s.prefix + "pending:" + nonce
	used := s.prefix + "used:" + nonce

	val, err := s.client.GetDel(ctx, pending).Result()
	if err == nil {
		retention := consumedRetention
		if unix, parseErr := strconv.ParseInt(val, 10, 64); parseErr == nil {
			if remaining := time.Until(time.Unix(unix, 0)); remaining > retention {
				retention = remaining
			}
		}
		return s.client.Set(ctx, used, "1", retention).Err()
	}
	if err != redis.Nil {
		return err
	}

	seen, err := s.client.Exists(ctx, used).Result()
	if err != nil {
		return err
	}
	if seen > 0 {
		return core.ErrChallengeUsed
	}
	return core.ErrChallengeExpired
}

// RedisRevocationStore remembers revoked session token ids in Redis.
type RedisRevocationStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{
		client: client,
		prefix: "walletgate:revoked:",
	}
}

var _ ports.RevocationStore = (*RedisRevocationStore)(nil)

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, expiry time.Duration) error {
	return s.client.Set(ctx, s.prefix+tokenID, "1", expiry).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
