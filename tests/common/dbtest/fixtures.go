//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestTenant inserts a tenant; hoursJSON uses the {"mon":{"open","close"}} layout.
func CreateTestTenant(t *testing.T, db DBLike, timezone string, bufferMinutes int, autoConfirm bool, hoursJSON string) uuid.UUID {
	t.Helper()

	tenantID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO tenants (id, name, timezone, buffer_minutes, auto_confirm, hours) VALUES ($1, $2, $3, $4, $5, $6::jsonb)",
		tenantID, "Tenant "+tenantID.String()[:8], timezone, bufferMinutes, autoConfirm, hoursJSON)
	require.NoError(t, err)

	return tenantID
}

func CreateTestService(t *testing.T, db DBLike, tenantID uuid.UUID, code string, durationMin int, active bool) uuid.UUID {
	t.Helper()

	serviceID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO services (id, tenant_id, code, name, duration_min, is_active) VALUES ($1, $2, $3, $3, $4, $5)",
		serviceID, tenantID, code, durationMin, active)
	require.NoError(t, err)

	return serviceID
}

// CreateTestStaff inserts an active member. Without serviceIDs the member
// performs every service.
func CreateTestStaff(t *testing.T, db DBLike, tenantID uuid.UUID, name string, locales []string, serviceIDs ...uuid.UUID) uuid.UUID {
	t.Helper()

	staffID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO staff (id, tenant_id, name, locales, is_active) VALUES ($1, $2, $3, $4, true)",
		staffID, tenantID, name, locales)
	require.NoError(t, err)

	for _, sid := range serviceIDs {
		_, err := db.Exec(ctx, "INSERT INTO staff_services (staff_id, service_id) VALUES ($1, $2)", staffID, sid)
		require.NoError(t, err)
	}

	return staffID
}

func CreateTestTimeOff(t *testing.T, db DBLike, staffID uuid.UUID, start, end time.Time, reason string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO time_off (id, staff_id, start_at, end_at, reason) VALUES ($1, $2, $3, $4, $5)",
		id, staffID, start, end, reason)
	require.NoError(t, err)

	return id
}

func CountAppointmentEvents(t *testing.T, db DBLike, appointmentID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM appointment_events WHERE appointment_id = $1", appointmentID).Scan(&n)
	require.NoError(t, err)

	return n
}

// SeedReferenceData has nothing global to insert; every tenant's catalog is
// created per test.
func SeedReferenceData(_ *pgxpool.Pool) error {
	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
