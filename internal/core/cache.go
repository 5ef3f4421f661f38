// Package core defines the repository ports and small cache-backed helpers shared by services.
package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/medexjob/medexjob-api/internal/domain/model"
)

// CacheRepository is a byte-oriented key/value store with expiry. Get
// reports a miss as (nil, nil); a zero TTL means no expiry.
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete reports whether the key existed.
	Delete(ctx context.Context, key string) (bool, error)
	// SetIfNotExists reports whether this call created the key.
	SetIfNotExists(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Health(ctx context.Context) error
}

const (
	activePlansKey = "plans:active"
	jobViewPrefix  = "job:view:"
)

// PlanCatalogCache stores the public plan list.
type PlanCatalogCache struct {
	cache CacheRepository
	ttl   time.Duration
}

// NewPlanCatalogCache creates a PlanCatalogCache. A nil cache disables caching.
func NewPlanCatalogCache(cache CacheRepository, ttl time.Duration) *PlanCatalogCache {
	return &PlanCatalogCache{cache: cache, ttl: ttl}
}

// Get returns the cached list, or nil when absent or undecodable.
func (c *PlanCatalogCache) Get(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	if c == nil || c.cache == nil {
		return nil, nil
	}
	raw, err := c.cache.Get(ctx, activePlansKey)
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	var plans []*model.SubscriptionPlan
	if err := json.Unmarshal(raw, &plans); err != nil {
		return nil, nil //nolint:nilerr // a corrupt entry is treated as a miss
	}
	return plans, nil
}

// Put stores the list.
func (c *PlanCatalogCache) Put(ctx context.Context, plans []*model.SubscriptionPlan) error {
	if c == nil || c.cache == nil {
		return nil
	}
	raw, err := json.Marshal(plans)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, activePlansKey, raw, c.ttl)
}

// Invalidate drops the cached list after an admin write.
func (c *PlanCatalogCache) Invalidate(ctx context.Context) error {
	if c == nil || c.cache == nil {
		return nil
	}
	_, err := c.cache.Delete(ctx, activePlansKey)
	return err
}

// ViewDeduper decides whether a job view should be counted.
type ViewDeduper struct {
	cache  CacheRepository
	window time.Duration
}

// NewViewDeduper creates a ViewDeduper. A nil cache counts every view.
func NewViewDeduper(cache CacheRepository, window time.Duration) *ViewDeduper {
	return &ViewDeduper{cache: cache, window: window}
}

// FirstView reports whether viewer has not viewed jobID within the window.
func (d *ViewDeduper) FirstView(ctx context.Context, jobID, viewer string) (bool, error) {
	if d == nil || d.cache == nil {
		return true, nil
	}
	return d.cache.SetIfNotExists(ctx, jobViewPrefix+jobID+":"+viewer, []byte("1"), d.window)
}
