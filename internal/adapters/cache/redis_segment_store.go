package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trip-itinerary-service/internal/domain"
)

const segmentIDCounterKey = "segment:next_id"

// RedisSegmentStore keeps route segments in Redis, one JSON value per plan
// pair plus a per-trip set of keys so bulk invalidation does not need a
// scan. Entries carry no Redis TTL: staleness is judged by the cache
// service from cached_at, and explicit invalidation removes rows.
type RedisSegmentStore struct {
	Client *redis.Client
}

func NewRedisSegmentStore(client *redis.Client) *RedisSegmentStore {
	return &RedisSegmentStore{Client: client}
}

func segmentKey(fromPlanID, toPlanID int) string {
	return fmt.Sprintf("segment:%d:%d", fromPlanID, toPlanID)
}

func tripIndexKey(tripID int) string {
	return fmt.Sprintf("trip:%d:segments", tripID)
}

func (s *RedisSegmentStore) Get(ctx context.Context, fromPlanID, toPlanID int) (*domain.RouteSegment, error) {
	if s.Client == nil {
		return nil, errors.New("segment store: redis client is nil")
	}

	raw, err := s.Client.Get(ctx, segmentKey(fromPlanID, toPlanID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get segment %d->%d: %w", fromPlanID, toPlanID, err)
	}

	var seg domain.RouteSegment
	if err := json.Unmarshal(raw, &seg); err != nil {
		return nil, fmt.Errorf("get segment %d->%d: decode: %w", fromPlanID, toPlanID, err)
	}
	return &seg, nil
}

func (s *RedisSegmentStore) Put(ctx context.Context, seg *domain.RouteSegment) (*domain.RouteSegment, error) {
	if s.Client == nil {
		return nil, errors.New("segment store: redis client is nil")
	}
	if seg == nil {
		return nil, errors.New("put segment: segment must be non-nil")
	}

	stored := *seg
	if stored.ID == 0 {
		id, err := s.Client.Incr(ctx, segmentIDCounterKey).Result()
		if err != nil {
			return nil, fmt.Errorf("put segment: assign id: %w", err)
		}
		stored.ID = id
	}

	key := segmentKey(stored.FromPlanID, stored.ToPlanID)

	// A pair can migrate between trips when plans are re-seeded; drop the
	// key from the old trip's index so invalidation stays precise.
	if prev, err := s.Get(ctx, stored.FromPlanID, stored.ToPlanID); err == nil && prev != nil && prev.TripID != stored.TripID {
		if err := s.Client.SRem(ctx, tripIndexKey(prev.TripID), key).Err(); err != nil {
			return nil, fmt.Errorf("put segment: unindex old trip %d: %w", prev.TripID, err)
		}
	}

	raw, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("put segment: encode: %w", err)
	}

	pipe := s.Client.TxPipeline()
	pipe.Set(ctx, key, raw, 0)
	pipe.SAdd(ctx, tripIndexKey(stored.TripID), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("put segment %d->%d: %w", stored.FromPlanID, stored.ToPlanID, err)
	}

	return &stored, nil
}

func (s *RedisSegmentStore) DeleteByTrip(ctx context.Context, tripID int) error {
	if s.Client == nil {
		return errors.New("segment store: redis client is nil")
	}

	idx := tripIndexKey(tripID)
	keys, err := s.Client.SMembers(ctx, idx).Result()
	if err != nil {
		return fmt.Errorf("delete segments for trip %d: read index: %w", tripID, err)
	}

	keys = append(keys, idx)
	if err := s.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete segments for trip %d: %w", tripID, err)
	}
	return nil
}
