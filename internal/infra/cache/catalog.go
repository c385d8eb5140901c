package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"vehicle-rental/internal/domain/catalog"
	"vehicle-rental/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:v1"

// CatalogCache is a read-through cache over the catalog provider. The tables
// change rarely and are fetched once per customer session, so a short TTL is
// enough; a cache miss or Redis outage falls through to the source.
type CatalogCache struct {
	source shared.CatalogProvider
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(source shared.CatalogProvider, client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		source: source,
		client: client,
		ttl:    ttl,
	}
}

type cachedCatalog struct {
	Locations []catalog.Location `json:"locations"`
	Extras    []catalog.Extra    `json:"extras"`
}

func (c *CatalogCache) Load(ctx context.Context) (catalog.Catalog, error) {
	if data, err := c.client.Get(ctx, catalogKey).Bytes(); err == nil {
		var cached cachedCatalog
		if err := json.Unmarshal(data, &cached); err == nil {
			return catalog.New(cached.Locations, cached.Extras), nil
		}
		slog.Warn("discarding undecodable cached catalog")
	}

	cat, err := c.source.Load(ctx)
	if err != nil {
		return catalog.Catalog{}, err
	}

	data, err := json.Marshal(cachedCatalog{
		Locations: cat.Locations(),
		Extras:    cat.Extras(),
	})
	if err == nil {
		if err := c.client.Set(ctx, catalogKey, data, c.ttl).Err(); err != nil {
			slog.Warn("failed to cache catalog", "error", err)
		}
	}

	return cat, nil
}
