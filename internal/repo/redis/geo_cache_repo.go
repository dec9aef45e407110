package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
)

const geoLocationPrefix = "geo:location:"

// GeoCacheRepo shares resolved locations across processes. Entries are
// written without a TTL: the location vocabulary is bounded and
// resolutions do not go stale.
type GeoCacheRepo struct {
	client *goredis.Client
}

func NewGeoCacheRepo(client *goredis.Client) *GeoCacheRepo {
	return &GeoCacheRepo{client: client}
}

func (r *GeoCacheRepo) Get(ctx context.Context, key string) (*matching.LocationRecord, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if key == "" {
		return nil, fmt.Errorf("geo cache key is required")
	}

	raw, err := r.client.Get(ctx, geoLocationKey(key)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get geo cache entry: %w", err)
	}

	var record matching.LocationRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode geo cache entry: %w", err)
	}

	return &record, nil
}

func (r *GeoCacheRepo) Set(ctx context.Context, key string, record matching.LocationRecord) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if key == "" {
		return fmt.Errorf("geo cache key is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode geo cache entry: %w", err)
	}

	if err := r.client.Set(ctx, geoLocationKey(key), payload, 0).Err(); err != nil {
		return fmt.Errorf("set geo cache entry: %w", err)
	}
	return nil
}

func geoLocationKey(key string) string {
	return geoLocationPrefix + key
}
