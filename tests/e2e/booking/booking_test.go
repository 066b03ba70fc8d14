//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"booking-engine/internal/handler/dto/request"
	"booking-engine/internal/handler/dto/response"
	"booking-engine/tests/common/dbtest"
	"booking-engine/tests/common/httptest"
	"booking-engine/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	availabilityURL = "/api/availability"
	appointmentsURL = "/api/appointments"
	appointmentURL  = "/api/appointments/%s"

	allWeek = `{"sun":{"open":"09:00","close":"17:00"},"mon":{"open":"09:00","close":"17:00"},` +
		`"tue":{"open":"09:00","close":"17:00"},"wed":{"open":"09:00","close":"17:00"},` +
		`"thu":{"open":"09:00","close":"17:00"},"fri":{"open":"09:00","close":"17:00"},` +
		`"sat":{"open":"09:00","close":"17:00"}}`
)

type BookingSuite struct {
	e2e.SharedSuite
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

type salon struct {
	tenant string
	cut    uuid.UUID
	color  uuid.UUID
	alice  uuid.UUID
	bob    uuid.UUID
	day    string
}

// newSalon seeds a tenant open every day with two members; Bob only cuts.
func (s *BookingSuite) newSalon(t *testing.T, bufferMinutes int) salon {
	t.Helper()
	tenantID := dbtest.CreateTestTenant(t, s.DB, "UTC", bufferMinutes, false, allWeek)
	cut := dbtest.CreateTestService(t, s.DB, tenantID, "cut", 30, true)
	color := dbtest.CreateTestService(t, s.DB, tenantID, "color", 60, true)
	alice := dbtest.CreateTestStaff(t, s.DB, tenantID, "Alice", []string{"en"})
	bob := dbtest.CreateTestStaff(t, s.DB, tenantID, "Bob", []string{"es"}, cut)

	return salon{
		tenant: tenantID.String(),
		cut:    cut,
		color:  color,
		alice:  alice,
		bob:    bob,
		day:    time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02"),
	}
}

func (sl salon) createRequest(staffID *uuid.UUID, clock string, services ...string) request.CreateAppointmentRequest {
	if len(services) == 0 {
		services = []string{"cut"}
	}
	return request.CreateAppointmentRequest{
		ClientName:   "Jane Doe",
		ClientLocale: "en",
		Services:     services,
		Date:         sl.day,
		Time:         clock,
		StaffID:      staffID,
	}
}

// =============================================================================
// TestAvailability
// =============================================================================

func (s *BookingSuite) TestAvailability() {
	s.Run("Normal case: booked interval shows up as unavailable", func() {
		t := s.T()
		sl := s.newSalon(t, 0)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, sl.createRequest(&sl.alice, "10:00", "color"), sl.tenant)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		url := fmt.Sprintf("%s?date=%s&services=cut&staffId=%s", availabilityURL, sl.day, sl.alice)
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, sl.tenant)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res response.AvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.Equal(t, response.AvailabilityModeSingle, res.Mode)
		require.Len(t, res.Slots, 31)

		var blocked []string
		for _, slot := range res.Slots {
			if !slot.Available {
				blocked = append(blocked, slot.Start.UTC().Format("15:04"))
			}
		}
		want := []string{"09:45", "10:00", "10:15", "10:30", "10:45"}
		if diff := cmp.Diff(want, blocked); diff != "" {
			t.Errorf("blocked starts mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Normal case: time off and buffer override are honored", func() {
		t := s.T()
		sl := s.newSalon(t, 0)

		day, err := time.Parse("2006-01-02", sl.day)
		require.NoError(t, err)
		dbtest.CreateTestTimeOff(t, s.DB, sl.alice, day.Add(13*time.Hour), day.Add(14*time.Hour), "lunch")

		url := fmt.Sprintf("%s?date=%s&services=cut&staffId=%s&bufferMinutes=15", availabilityURL, sl.day, sl.alice)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, sl.tenant)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res response.AvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))

		var blocked []string
		for _, slot := range res.Slots {
			if !slot.Available {
				blocked = append(blocked, slot.Start.UTC().Format("15:04"))
			}
		}
		want := []string{"12:30", "12:45", "13:00", "13:15", "13:30", "13:45", "14:00", "14:15"}
		if diff := cmp.Diff(want, blocked); diff != "" {
			t.Errorf("blocked starts mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Normal case: multi-staff ranks the client's language first", func() {
		t := s.T()
		sl := s.newSalon(t, 0)

		url := fmt.Sprintf("%s?date=%s&services=cut&locale=es", availabilityURL, sl.day)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, sl.tenant)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res response.AvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))

		expected := []response.StaffOptionResponse{
			{StaffID: sl.bob, Name: "Bob", LanguageMatch: true, AvailableCount: 31},
			{StaffID: sl.alice, Name: "Alice", LanguageMatch: false, AvailableCount: 31},
		}
		if diff := cmp.Diff(expected, res.StaffOptions); diff != "" {
			t.Errorf("staff options mismatch (-want +got):\n%s", diff)
		}
		require.Len(t, res.Staff, 2)
	})

	s.Run("Error case: unknown service and past date", func() {
		t := s.T()
		sl := s.newSalon(t, 0)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s?date=%s&services=perm", availabilityURL, sl.day), nil, sl.tenant)
		require.Equal(t, http.StatusNotFound, w.Code)

		past := time.Now().UTC().AddDate(0, 0, -2).Format("2006-01-02")
		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s?date=%s&services=cut", availabilityURL, past), nil, sl.tenant)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =============================================================================
// TestBookingLifecycle
// =============================================================================

func (s *BookingSuite) TestBookingLifecycle() {
	s.Run("Normal case: create, reschedule, confirm, complete", func() {
		t := s.T()
		sl := s.newSalon(t, 0)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, sl.createRequest(&sl.alice, "10:00", "cut", "color"), sl.tenant)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.AppointmentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		expected := &response.AppointmentResponse{
			StaffID:      sl.alice,
			ClientName:   "Jane Doe",
			ClientLocale: "en",
			Services: []response.ServiceLineResponse{
				{ServiceID: sl.cut, Code: "cut", DurationMin: 30},
				{ServiceID: sl.color, Code: "color", DurationMin: 60},
			},
			DurationMin: 90,
			Status:      "PENDING",
		}
		opts := cmpopts.IgnoreFields(response.AppointmentResponse{}, "ID", "TenantID", "Start", "End", "CreatedAt", "UpdatedAt")
		if diff := cmp.Diff(expected, &created, opts); diff != "" {
			t.Errorf("appointment mismatch (-want +got):\n%s", diff)
		}
		require.Equal(t, 90*time.Minute, created.End.Sub(created.Start))

		id := created.ID.String()
		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf(appointmentURL, id)+"/reschedule",
			map[string]any{"date": sl.day, "time": "10:30"}, sl.tenant)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var moved response.AppointmentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &moved))
		require.Equal(t, "10:30", moved.Start.UTC().Format("15:04"))

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf(appointmentURL, id)+"/confirm", nil, sl.tenant)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf(appointmentURL, id)+"/complete", nil, sl.tenant)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(appointmentURL, id), nil, sl.tenant)
		require.Equal(t, http.StatusOK, w.Code)
		var got response.AppointmentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &got))
		require.Equal(t, "COMPLETED", got.Status)

		require.Equal(t, 4, dbtest.CountAppointmentEvents(t, s.DB, created.ID))
	})

	s.Run("Normal case: cancel frees the slot", func() {
		t := s.T()
		sl := s.newSalon(t, 0)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, sl.createRequest(&sl.alice, "11:00"), sl.tenant)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created response.AppointmentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, sl.createRequest(&sl.alice, "11:15"), sl.tenant)
		require.Equal(t, http.StatusConflict, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf(appointmentURL, created.ID)+"/cancel",
			map[string]any{"reason": "client called"}, sl.tenant)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf(appointmentURL, created.ID)+"/cancel", nil, sl.tenant)
		require.Equal(t, http.StatusConflict, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, sl.createRequest(&sl.alice, "11:15"), sl.tenant)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	s.Run("Normal case: any-staff booking falls back to the next member", func() {
		t := s.T()
		sl := s.newSalon(t, 0)

		req := sl.createRequest(nil, "09:00")
		req.ClientLocale = "es"

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, req, sl.tenant)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var first response.AppointmentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &first))
		require.Equal(t, sl.bob, first.StaffID)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, req, sl.tenant)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var second response.AppointmentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &second))
		require.Equal(t, sl.alice, second.StaffID)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, req, sl.tenant)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("Error case: appointments are scoped to their tenant", func() {
		t := s.T()
		sl := s.newSalon(t, 0)
		other := s.newSalon(t, 0)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, sl.createRequest(&sl.alice, "12:00"), sl.tenant)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created response.AppointmentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(appointmentURL, created.ID), nil, other.tenant)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// TestConcurrentBooking
// =============================================================================

func (s *BookingSuite) TestConcurrentBooking() {
	s.Run("Concurrency: exactly one of many requests for a slot wins", func() {
		t := s.T()
		sl := s.newSalon(t, 0)

		const attempts = 10
		codes := make([]int, attempts)
		body := sl.createRequest(&sl.alice, "14:00")

		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, body, sl.tenant)
				codes[i] = w.Code
			}()
		}
		close(start)
		wg.Wait()

		created, conflicts := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicts++
			default:
				t.Errorf("unexpected status %d", code)
			}
		}
		require.Equal(t, 1, created)
		require.Equal(t, attempts-1, conflicts)

		var n int
		err := s.DB.QueryRow(t.Context(),
			"SELECT count(*) FROM appointments WHERE staff_id = $1 AND status IN ('PENDING','CONFIRMED')", sl.alice).Scan(&n)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})
}

// =============================================================================
// TestReferenceCache
// =============================================================================

func (s *BookingSuite) TestReferenceCache() {
	s.Run("Error case: booking rejects a member deactivated after being cached", func() {
		t := s.T()
		sl := s.newSalon(t, 0)

		url := fmt.Sprintf("%s?date=%s&services=cut", availabilityURL, sl.day)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, sl.tenant)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		cached, err := s.Redis.Exists(t.Context(), "booking:ref:staff:"+sl.tenant).Result()
		require.NoError(t, err)
		require.Equal(t, int64(1), cached, "staff directory was not cached")

		_, err = s.DB.Exec(t.Context(), "UPDATE staff SET is_active = false WHERE id = $1", sl.alice)
		require.NoError(t, err)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, appointmentsURL, sl.createRequest(&sl.alice, "10:00"), sl.tenant)
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Staff not found")
	})
}
