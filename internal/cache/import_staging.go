package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pyqbank/internal/model"
)

// Staged batches expire on their own if the operator never confirms or cancels.
const stagingTTL = 30 * time.Minute

// ImportStaging parks validated import rows between the validate and confirm
// phases, keyed by the batch name handed back to the client.
type ImportStaging interface {
	Put(ctx context.Context, name string, rows []*model.Question) error
	// Get returns nil when the batch does not exist or has expired.
	Get(ctx context.Context, name string) ([]*model.Question, error)
	Delete(ctx context.Context, name string) error
}

type importStaging struct {
	client *redis.Client
}

func NewImportStaging(client *redis.Client) ImportStaging {
	return &importStaging{client: client}
}

func (c *importStaging) key(name string) string {
	return fmt.Sprintf("pyq:import:%s", name)
}

func (c *importStaging) Put(ctx context.Context, name string, rows []*model.Question) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(name), data, stagingTTL).Err()
}

func (c *importStaging) Get(ctx context.Context, name string) ([]*model.Question, error) {
	data, err := c.client.Get(ctx, c.key(name)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rows []*model.Question
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *importStaging) Delete(ctx context.Context, name string) error {
	return c.client.Del(ctx, c.key(name)).Err()
}
