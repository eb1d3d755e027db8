package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"pyqbank/internal/model"
)

const facetTTL = 5 * time.Minute

// FacetCache holds the computed filter options and statistics for a short TTL.
// Question writes invalidate both keys explicitly, so the UI never shows stale
// facets for longer than one request after a write.
type FacetCache interface {
	GetFilterOptions(ctx context.Context) (*model.FilterOptions, error)
	SetFilterOptions(ctx context.Context, opts *model.FilterOptions) error
	GetStatistics(ctx context.Context) (*model.Statistics, error)
	SetStatistics(ctx context.Context, stats *model.Statistics) error
	Invalidate(ctx context.Context) error
}

type facetCache struct {
	client *redis.Client
}

func NewFacetCache(client *redis.Client) FacetCache {
	return &facetCache{client: client}
}

func (c *facetCache) filterKey() string { return "pyq:facets:filters" }
func (c *facetCache) statsKey() string  { return "pyq:facets:stats" }

func (c *facetCache) GetFilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	data, err := c.client.Get(ctx, c.filterKey()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var opts model.FilterOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (c *facetCache) SetFilterOptions(ctx context.Context, opts *model.FilterOptions) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.filterKey(), data, facetTTL).Err()
}

func (c *facetCache) GetStatistics(ctx context.Context) (*model.Statistics, error) {
	data, err := c.client.Get(ctx, c.statsKey()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats model.Statistics
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *facetCache) SetStatistics(ctx context.Context, stats *model.Statistics) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.statsKey(), data, facetTTL).Err()
}

func (c *facetCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.filterKey(), c.statsKey()).Err()
}
