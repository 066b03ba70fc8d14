package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"booking-engine/internal/domain/calendar"
	"booking-engine/internal/domain/service"
	"booking-engine/internal/domain/staff"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "booking:ref"

// ReferenceCache fronts a shared.ReferenceReads with Redis. Tenant settings
// and the staff directory are cached for ttl; service resolution passes
// through. Redis failures fall back to the wrapped reader. Reads on a context
// marked with shared.WithFreshReads skip the cache and refresh the entry.
type ReferenceCache struct {
	next   shared.ReferenceReads
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewReferenceCache(next shared.ReferenceReads, rdb redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *ReferenceCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ReferenceCache{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

type tenantEntry struct {
	TenantID      uuid.UUID             `json:"tenant_id"`
	Hours         calendar.WeekSchedule `json:"hours"`
	BufferMinutes int                   `json:"buffer_minutes"`
	Timezone      string                `json:"timezone"`
	AutoConfirm   bool                  `json:"auto_confirm"`
}

type staffEntry struct {
	ID         uuid.UUID              `json:"id"`
	TenantID   uuid.UUID              `json:"tenant_id"`
	Name       string                 `json:"name"`
	Locales    []string               `json:"locales"`
	Active     bool                   `json:"active"`
	ServiceIDs []uuid.UUID            `json:"service_ids"`
	Hours      *calendar.WeekSchedule `json:"hours,omitempty"`
}

func (c *ReferenceCache) TenantSettings(ctx context.Context, tenantID uuid.UUID) (*shared.TenantSettings, error) {
	key := keyPrefix + ":tenant:" + tenantID.String()

	var cached tenantEntry
	if !shared.IsFreshRead(ctx) && c.get(ctx, key, &cached) {
		return &shared.TenantSettings{
			TenantID:      cached.TenantID,
			Hours:         cached.Hours,
			BufferMinutes: cached.BufferMinutes,
			Timezone:      cached.Timezone,
			AutoConfirm:   cached.AutoConfirm,
		}, nil
	}

	settings, err := c.next.TenantSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, tenantEntry{
		TenantID:      settings.TenantID,
		Hours:         settings.Hours,
		BufferMinutes: settings.BufferMinutes,
		Timezone:      settings.Timezone,
		AutoConfirm:   settings.AutoConfirm,
	})
	return settings, nil
}

func (c *ReferenceCache) ActiveStaff(ctx context.Context, tenantID uuid.UUID) ([]*staff.Staff, error) {
	key := keyPrefix + ":staff:" + tenantID.String()

	var cached []staffEntry
	if !shared.IsFreshRead(ctx) && c.get(ctx, key, &cached) {
		members, err := staffFromEntries(cached)
		if err == nil {
			return members, nil
		}
		c.logger.Warn("discarding undecodable staff cache entry", slog.String("key", key), slog.Any("error", err))
	}

	members, err := c.next.ActiveStaff(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	entries := make([]staffEntry, len(members))
	for i, m := range members {
		entries[i] = staffEntry{
			ID:         m.ID(),
			TenantID:   m.TenantID(),
			Name:       m.Name(),
			Locales:    m.Locales(),
			Active:     m.IsActive(),
			ServiceIDs: m.ServiceIDs(),
			Hours:      m.Hours(),
		}
	}
	c.set(ctx, key, entries)
	return members, nil
}

func (c *ReferenceCache) ResolveServices(ctx context.Context, tenantID uuid.UUID, refs []service.Ref) ([]*service.Service, error) {
	return c.next.ResolveServices(ctx, tenantID, refs)
}

func (c *ReferenceCache) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed", slog.String("key", key), slog.Any("error", err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("redis entry undecodable", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return true
}

func (c *ReferenceCache) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("redis entry unencodable", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", slog.String("key", key), slog.Any("error", err))
	}
}

func staffFromEntries(entries []staffEntry) ([]*staff.Staff, error) {
	members := make([]*staff.Staff, 0, len(entries))
	for _, e := range entries {
		m, err := staff.NewStaff(e.ID, e.TenantID, e.Name, e.Locales, e.Active, e.ServiceIDs, e.Hours)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}
