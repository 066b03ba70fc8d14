//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"

	"booking-engine/internal/infra"
	"booking-engine/internal/infra/repository"
	"booking-engine/internal/usecase/shared"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Insert Tests
// =============================================================================

func TestAppointmentRepository_Insert(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		execErrs      []error
		expectedError bool
		expectKind    infra.RepositoryErrorKind
		expectExecs   int
	}{
		{
			name:        "success: row and service lines inserted",
			execErrs:    []error{nil, nil},
			expectExecs: 2,
		},
		{
			name:          "error: overlapping appointment hits the exclusion constraint",
			execErrs:      []error{&pgconn.PgError{Code: "23P01", Message: "conflicting key value violates exclusion constraint"}},
			expectedError: true,
			expectKind:    infra.KindConflict,
			expectExecs:   1,
		},
		{
			name:          "error: duplicate id",
			execErrs:      []error{&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}},
			expectedError: true,
			expectKind:    infra.KindDuplicateKey,
			expectExecs:   1,
		},
		{
			name:          "error: unknown service on a line",
			execErrs:      []error{nil, &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}},
			expectedError: true,
			expectKind:    infra.KindForeignKeyViolated,
			expectExecs:   2,
		},
		{
			name:          "error: connection lost",
			execErrs:      []error{errors.New("connection reset by peer")},
			expectedError: true,
			expectKind:    infra.KindDBFailure,
			expectExecs:   1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeDBTX{execErrs: tc.execErrs}
			repo := repository.NewAppointmentRepository(fake)

			a, err := builder.NewAppointmentBuilder().BuildDomain()
			require.NoError(t, err)

			actualError := repo.Insert(ctx, a)

			if tc.expectedError {
				require.Error(t, actualError)
				assert.True(t, infra.IsKind(actualError, tc.expectKind), "expected kind [%v] but got [%T] (%v)", tc.expectKind, actualError, actualError)
			} else {
				assert.NoError(t, actualError)
			}
			assert.Len(t, fake.execs, tc.expectExecs)
		})
	}
}

// =============================================================================
// Update Tests
// =============================================================================

func TestAppointmentRepository_Update(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		tag           string
		err           error
		expectedError bool
		expectKind    infra.RepositoryErrorKind
	}{
		{name: "success: one row updated", tag: "UPDATE 1"},
		{name: "error: no row for tenant", tag: "UPDATE 0", expectedError: true, expectKind: infra.KindNotFound},
		{
			name:          "error: moved onto a taken interval",
			err:           &pgconn.PgError{Code: "23P01"},
			expectedError: true,
			expectKind:    infra.KindConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := builder.NewAppointmentBuilder().BuildDomain()
			require.NoError(t, err)

			for op, run := range map[string]func(*repository.AppointmentRepository) error{
				"interval": func(r *repository.AppointmentRepository) error { return r.UpdateInterval(ctx, a) },
				"status":   func(r *repository.AppointmentRepository) error { return r.UpdateStatus(ctx, a) },
			} {
				fake := &fakeDBTX{tag: pgconn.NewCommandTag(tc.tag), execErrs: []error{tc.err}}
				actualError := run(repository.NewAppointmentRepository(fake))

				if tc.expectedError {
					require.Error(t, actualError, op)
					assert.True(t, infra.IsKind(actualError, tc.expectKind), "%s: expected kind [%v] but got (%v)", op, tc.expectKind, actualError)
				} else {
					assert.NoError(t, actualError, op)
				}
			}
		})
	}
}

func TestAppointmentRepository_FindForUpdate_NotFound(t *testing.T) {
	fake := &fakeDBTX{rowErr: pgx.ErrNoRows}
	repo := repository.NewAppointmentRepository(fake)

	a, err := repo.FindForUpdate(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Nil(t, a)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestEventRepository_Append(t *testing.T) {
	fake := &fakeDBTX{execErrs: []error{nil}}
	repo := repository.NewEventRepository(fake)

	err := repo.Append(context.Background(), shared.AppointmentEvent{
		AppointmentID: uuid.New(),
		TenantID:      uuid.New(),
		Kind:          shared.EventAppointmentCreated,
		Payload:       []byte(`{}`),
	})
	require.NoError(t, err)
	require.Len(t, fake.execs, 1)
	assert.Equal(t, shared.EventAppointmentCreated, fake.execs[0][2])
}

// fakeDBTX replays scripted Exec errors in order.
type fakeDBTX struct {
	execErrs []error
	tag      pgconn.CommandTag
	rowErr   error
	execs    [][]any
}

func (f *fakeDBTX) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	i := len(f.execs)
	f.execs = append(f.execs, args)
	if i < len(f.execErrs) && f.execErrs[i] != nil {
		return pgconn.CommandTag{}, f.execErrs[i]
	}
	return f.tag, nil
}

func (f *fakeDBTX) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("fakeDBTX.Query was called unexpectedly")
}

func (f *fakeDBTX) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: f.rowErr}
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }
