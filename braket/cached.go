package braket

import (
	"context"
	"time"

	"github.com/pithecene-io/braket-devices/cache"
	"github.com/pithecene-io/braket-devices/metrics"
	"github.com/pithecene-io/braket-devices/types"
)

// CachedRegistry keeps the static part of each device detail (everything
// but the status) for a TTL. A cached detail is completed with a freshly
// fetched status on every call.
type CachedRegistry struct {
	Registry
	static  *cache.Cache[types.DeviceDetail]
	metrics *metrics.Collector
}

// NewCachedRegistry wraps inner with a static detail cache. A non-positive
// ttl means cache.DefaultTTL.
func NewCachedRegistry(inner Registry, ttl time.Duration, m *metrics.Collector) *CachedRegistry {
	return &CachedRegistry{
		Registry: inner,
		static:   cache.New[types.DeviceDetail](ttl),
		metrics:  m,
	}
}

// GetDevice returns the cached static detail merged with a fresh status, or
// fetches and caches the full detail on a miss.
func (r *CachedRegistry) GetDevice(ctx context.Context, arn string) (types.DeviceDetail, error) {
	if err := ValidateARN(arn); err != nil {
		return types.DeviceDetail{}, err
	}

	if cached, ok := r.static.Get(arn); ok {
		status, err := r.Registry.DeviceStatus(ctx, arn)
		if err != nil {
			return types.DeviceDetail{}, err
		}
		r.metrics.IncCacheHit()
		detail := cached.Static()
		detail.DeviceStatus = status
		return detail, nil
	}

	r.metrics.IncCacheMiss()
	detail, err := r.Registry.GetDevice(ctx, arn)
	if err != nil {
		return types.DeviceDetail{}, err
	}
	r.static.Set(arn, detail.Static())
	return detail, nil
}

// Invalidate drops the cached detail of one device.
func (r *CachedRegistry) Invalidate(arn string) {
	r.static.Delete(arn)
}

// Cached reports how many details are held, including expired ones.
func (r *CachedRegistry) Cached() int {
	return r.static.Len()
}
