// Package cache implements the Credential & Branding Cache (§4.4): a read-through cache with
// positive/negative TTLs and per-key single-flight collapsing of concurrent misses.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/Wadijet/notifyhub/core/logger"
	"github.com/Wadijet/notifyhub/internal/model"
)

// IdentityClient fetches tenant branding from the external identity service (§6).
type IdentityClient interface {
	FetchBranding(ctx context.Context, tenantID string) (*model.TenantBranding, error)
}

// CredentialStore is the persistence boundary for credentials (§4.4 priority resolution).
type CredentialStore interface {
	ActiveCredential(ctx context.Context, tenantID string, channel model.Channel) (*model.Credential, error)
	SynthesizeDefault(ctx context.Context, tenantID string, channel model.Channel) (*model.Credential, error)
	RecordAuthFailure(ctx context.Context, tenantID string, channel model.Channel) (*model.Credential, error)
	ResetAuthFailures(ctx context.Context, tenantID string, channel model.Channel) error
}

type entry[T any] struct {
	value     T
	negative  bool
	expiresAt time.Time
}

// Cache is the shared credential/branding cache described in §4.4 and §5.
type Cache struct {
	identity IdentityClient
	creds    CredentialStore

	positiveTTL time.Duration
	negativeTTL time.Duration

	mu         sync.RWMutex
	credItems  map[string]entry[*model.Credential]
	brandItems map[string]entry[*model.TenantBranding]

	group singleflight.Group

	redis *redis.Client // optional: carries credential invalidations across instances; entries stay process-local
}

func New(identity IdentityClient, creds CredentialStore, positiveTTL, negativeTTL time.Duration, rdb *redis.Client) *Cache {
	return &Cache{
		identity:    identity,
		creds:       creds,
		positiveTTL: positiveTTL,
		negativeTTL: negativeTTL,
		credItems:   make(map[string]entry[*model.Credential]),
		brandItems:  make(map[string]entry[*model.TenantBranding]),
		redis:       rdb,
	}
}

func credKey(tenantID string, channel model.Channel) string {
	return tenantID + ":" + string(channel)
}

// Credential resolves a (tenant, channel) credential per the §4.4 priority rules:
// 1. active custom credential, no fallback; 2. active system-auto credential;
// 3. synthesize from defaults and persist.
func (c *Cache) Credential(ctx context.Context, tenantID string, channel model.Channel) (*model.Credential, error) {
	key := credKey(tenantID, channel)

	c.mu.RLock()
	if e, ok := c.credItems[key]; ok && time.Now().Before(e.expiresAt) {
		c.mu.RUnlock()
		if e.negative {
			return nil, fmt.Errorf("no credential for %s", key)
		}
		return e.value, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		cred, err := c.creds.ActiveCredential(ctx, tenantID, channel)
		if err == nil {
			c.storeCred(key, cred, false)
			return cred, nil
		}

		cred, err = c.creds.SynthesizeDefault(ctx, tenantID, channel)
		if err != nil {
			c.storeCred(key, nil, true)
			return nil, err
		}
		c.storeCred(key, cred, false)
		return cred, nil
	})
	if err != nil {
		logger.WithTenant(tenantID).WithField("channel", string(channel)).WithError(err).Warn("credential resolution failed")
		return nil, err
	}
	return v.(*model.Credential), nil
}

func (c *Cache) storeCred(key string, cred *model.Credential, negative bool) {
	ttl := c.positiveTTL
	if negative {
		ttl = c.negativeTTL
	}
	c.mu.Lock()
	c.credItems[key] = entry[*model.Credential]{value: cred, negative: negative, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Branding resolves tenant branding, negatively caching any fetch error (a 404 included, §6)
// and returning the default branding in its place.
func (c *Cache) Branding(ctx context.Context, tenantID string) (model.TenantBranding, error) {
	c.mu.RLock()
	if e, ok := c.brandItems[tenantID]; ok && time.Now().Before(e.expiresAt) {
		c.mu.RUnlock()
		if e.negative {
			return model.DefaultBranding(tenantID), nil
		}
		return *e.value, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("branding:"+tenantID, func() (interface{}, error) {
		b, err := c.identity.FetchBranding(ctx, tenantID)
		if err != nil {
			c.storeBranding(tenantID, nil, true)
			return nil, err
		}
		c.storeBranding(tenantID, b, false)
		return b, nil
	})
	if err != nil {
		return model.DefaultBranding(tenantID), nil
	}
	return *v.(*model.TenantBranding), nil
}

func (c *Cache) storeBranding(tenantID string, b *model.TenantBranding, negative bool) {
	ttl := c.positiveTTL
	if negative {
		ttl = c.negativeTTL
	}
	c.mu.Lock()
	c.brandItems[tenantID] = entry[*model.TenantBranding]{value: b, negative: negative, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// RecordAuthFailure ticks a credential's consecutive-AUTH_ERROR counter toward the circuit
// breaker threshold (§9 Open Question) and drops the cached copy so the next Credential call
// observes a freshly tripped circuit rather than a stale cached one.
func (c *Cache) RecordAuthFailure(ctx context.Context, tenantID string, channel model.Channel) {
	if _, err := c.creds.RecordAuthFailure(ctx, tenantID, channel); err != nil {
		logger.WithTenant(tenantID).WithField("channel", string(channel)).WithError(err).Warn("recording auth failure for circuit breaker failed")
		return
	}
	c.Invalidate(ctx, tenantID, channel)
}

// ResetAuthFailures clears a credential's consecutive-AUTH_ERROR count after a successful
// send (§9 Open Question), so transient blips don't creep it toward tripping the circuit.
func (c *Cache) ResetAuthFailures(ctx context.Context, tenantID string, channel model.Channel) {
	if err := c.creds.ResetAuthFailures(ctx, tenantID, channel); err != nil {
		logger.WithTenant(tenantID).WithField("channel", string(channel)).WithError(err).Warn("resetting auth failure count failed")
		return
	}
	c.Invalidate(ctx, tenantID, channel)
}

// Invalidate drops any cached credential for (tenant, channel), e.g. after an admin PUT, and
// notifies other instances sharing the same Redis so their local copies drop too.
func (c *Cache) Invalidate(ctx context.Context, tenantID string, channel model.Channel) {
	key := credKey(tenantID, channel)
	c.mu.Lock()
	delete(c.credItems, key)
	c.mu.Unlock()
	c.shareAcrossInstances(ctx, key)
}

const invalidationChannel = "notifyhub:cache:invalidate"

type invalidationMsg struct {
	Key string `json:"key"`
}

// shareAcrossInstances publishes a cache-invalidation event to Redis so other service instances
// drop their local copy too (best-effort; absent redis client is a no-op).
func (c *Cache) shareAcrossInstances(ctx context.Context, key string) {
	if c.redis == nil {
		return
	}
	b, err := json.Marshal(invalidationMsg{Key: key})
	if err != nil {
		return
	}
	_ = c.redis.Publish(ctx, invalidationChannel, b).Err()
}

// StartInvalidationSubscriber listens for invalidation events published by other instances and
// drops the matching local credential entry. No-op if the cache has no Redis client.
func (c *Cache) StartInvalidationSubscriber(ctx context.Context) {
	if c.redis == nil {
		return
	}
	sub := c.redis.Subscribe(ctx, invalidationChannel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var m invalidationMsg
				if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
					continue
				}
				c.mu.Lock()
				delete(c.credItems, m.Key)
				c.mu.Unlock()
			}
		}
	}()
}
