package readstore

import (
	"context"
	"encoding/json"
	"strings"

	"booking-engine/internal/domain/calendar"
	"booking-engine/internal/domain/service"
	"booking-engine/internal/domain/staff"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	getTenantSettingsSQL = `
SELECT id, timezone, buffer_minutes, auto_confirm, hours
FROM tenants
WHERE id = $1`

	listActiveStaffSQL = `
SELECT s.id, s.tenant_id, s.name, s.locales, s.is_active, s.hours,
       COALESCE(array_agg(ss.service_id) FILTER (WHERE ss.service_id IS NOT NULL), '{}') AS service_ids
FROM staff s
LEFT JOIN staff_services ss ON ss.staff_id = s.id
WHERE s.tenant_id = $1 AND s.is_active
GROUP BY s.id
ORDER BY s.id`

	resolveServicesSQL = `
SELECT id, tenant_id, code, name, duration_min, is_active
FROM services
WHERE tenant_id = $1 AND (id = ANY($2::uuid[]) OR lower(code) = ANY($3::text[]))`
)

// ReferenceReadStore reads tenant settings, the staff directory and the
// service catalog from PostgreSQL.
type ReferenceReadStore struct {
	db db.DBTX
}

func NewReferenceReadStore(dbtx db.DBTX) *ReferenceReadStore {
	return &ReferenceReadStore{db: dbtx}
}

func (r *ReferenceReadStore) TenantSettings(ctx context.Context, tenantID uuid.UUID) (*shared.TenantSettings, error) {
	var (
		settings shared.TenantSettings
		hours    []byte
	)
	err := r.db.QueryRow(ctx, getTenantSettingsSQL, tenantID).Scan(
		&settings.TenantID,
		&settings.Timezone,
		&settings.BufferMinutes,
		&settings.AutoConfirm,
		&hours,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("tenant not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get tenant settings", err)
	}

	if err := json.Unmarshal(hours, &settings.Hours); err != nil {
		return nil, infra.WrapRepoErr("failed to decode tenant hours", err, infra.KindDBFailure)
	}
	return &settings, nil
}

func (r *ReferenceReadStore) ActiveStaff(ctx context.Context, tenantID uuid.UUID) ([]*staff.Staff, error) {
	rows, err := r.db.Query(ctx, listActiveStaffSQL, tenantID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list staff", err)
	}
	defer rows.Close()

	var result []*staff.Staff
	for rows.Next() {
		var (
			id, tid    uuid.UUID
			name       string
			locales    []string
			active     bool
			hours      []byte
			serviceIDs []uuid.UUID
		)
		if err := rows.Scan(&id, &tid, &name, &locales, &active, &hours, &serviceIDs); err != nil {
			return nil, infra.WrapRepoErr("failed to scan staff", err)
		}

		var schedule *calendar.WeekSchedule
		if len(hours) > 0 {
			schedule = new(calendar.WeekSchedule)
			if err := json.Unmarshal(hours, schedule); err != nil {
				return nil, infra.WrapRepoErr("failed to decode staff hours", err, infra.KindDBFailure)
			}
		}

		st, err := staff.NewStaff(id, tid, name, locales, active, serviceIDs, schedule)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid staff row", err, infra.KindDBFailure)
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate staff", err)
	}

	return result, nil
}

// ResolveServices returns every catalog entry matching a ref by id or code.
// Inactive entries are included; callers decide what to do with them.
func (r *ReferenceReadStore) ResolveServices(ctx context.Context, tenantID uuid.UUID, refs []service.Ref) ([]*service.Service, error) {
	ids := make([]uuid.UUID, 0, len(refs))
	codes := make([]string, 0, len(refs))
	for _, ref := range refs {
		if id, ok := ref.ID(); ok {
			ids = append(ids, id)
			continue
		}
		codes = append(codes, strings.ToLower(string(ref)))
	}

	rows, err := r.db.Query(ctx, resolveServicesSQL, tenantID, ids, codes)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to resolve services", err)
	}
	defer rows.Close()

	var result []*service.Service
	for rows.Next() {
		var (
			id, tid     uuid.UUID
			code, name  string
			durationMin int
			active      bool
		)
		if err := rows.Scan(&id, &tid, &code, &name, &durationMin, &active); err != nil {
			return nil, infra.WrapRepoErr("failed to scan service", err)
		}
		svc, err := service.NewService(id, tid, code, name, durationMin, active)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid service row", err, infra.KindDBFailure)
		}
		result = append(result, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate services", err)
	}

	return result, nil
}
