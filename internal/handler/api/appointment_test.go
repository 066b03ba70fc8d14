//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"booking-engine/internal/domain/appointment"
	"booking-engine/internal/handler/api"
	"booking-engine/internal/handler/middleware"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/commands"
	"booking-engine/tests/common/builder"
	"booking-engine/tests/common/httptest"
	"booking-engine/tests/common/testutil"
	commandsmock "booking-engine/tests/mock/commands"
	queriesmock "booking-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AppointmentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockAppointmentQueries
	handler      *api.AppointmentHandler
	tenantID     string
}

func (s *AppointmentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockAppointmentQueries(s.mockCtrl)
	s.handler = api.NewAppointmentHandler(s.mockCommands, s.mockQueries)
	s.tenantID = uuid.NewString()

	g := s.router.Group("/api", middleware.RequireTenant())
	g.POST("/appointments", s.handler.Create)
	g.GET("/appointments/:id", s.handler.Get)
	g.PATCH("/appointments/:id/reschedule", s.handler.Reschedule)
	g.PATCH("/appointments/:id/cancel", s.handler.Cancel)
	g.PATCH("/appointments/:id/confirm", s.handler.Confirm)
	g.PATCH("/appointments/:id/complete", s.handler.Complete)
}

func (s *AppointmentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAppointmentHandlerSuite(t *testing.T) {
	suite.Run(t, new(AppointmentHandlerTestSuite))
}

type testCaseAppointment struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestCreate() {
	url := "/api/appointments"

	b := builder.NewAppointmentBuilder()
	reqBody := b.BuildCreateRequestDTO()
	created := b.MustBuild()

	bound := []testCaseAppointment{
		{name: "clientName length OK (200 chars)", mutate: testutil.Field("clientName", strings.Repeat("a", 200)), expectCode: http.StatusCreated},
		{name: "clientName length invalid (201 chars)", mutate: testutil.Field("clientName", strings.Repeat("a", 201)), expectCode: http.StatusBadRequest},
		{name: "clientPhone length invalid (51 chars)", mutate: testutil.Field("clientPhone", strings.Repeat("1", 51)), expectCode: http.StatusBadRequest},
		{name: "services empty list", mutate: testutil.Field("services", []string{}), expectCode: http.StatusBadRequest},
		{name: "services blank entry", mutate: testutil.Field("services", []string{"cut", ""}), expectCode: http.StatusBadRequest},
		{name: "staffId not a uuid", mutate: testutil.Field("staffId", "alice"), expectCode: http.StatusBadRequest},
		{name: "staffId omitted", mutate: testutil.Field("staffId", nil), expectCode: http.StatusCreated},
	}

	missing := []testCaseAppointment{
		{name: "missing field: clientName (required)", mutate: testutil.Field("clientName", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: services (required)", mutate: testutil.Field("services", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: date (required)", mutate: testutil.Field("date", nil), expectCode: http.StatusBadRequest},
		{name: "missing field: time (required)", mutate: testutil.Field("time", nil), expectCode: http.StatusBadRequest},
	}

	s.Run("success: returns 201 Created with the appointment", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p commands.CreateBookingParams) (*appointment.Appointment, error) {
				s.Equal(s.tenantID, p.TenantID.String())
				s.Equal([]string{"cut", "color"}, p.ServiceRefs)
				s.Equal("2025-06-03", p.Date)
				s.Equal("10:00", p.Time)
				s.Require().NotNil(p.StaffID)
				s.Equal(b.StaffID, *p.StaffID)
				s.Equal("Jane Doe", p.Client.Name)
				return created, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.tenantID)

		var body resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(created.ID(), body.ID)
		s.Equal("PENDING", body.Status)
		s.Equal(90, body.DurationMin)
		s.Len(body.Services, 2)
	})

	s.Run("client locale falls back to Accept-Language", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p commands.CreateBookingParams) (*appointment.Appointment, error) {
				s.Equal("es-MX", p.Client.Locale)
				return created, nil
			}).Times(1)

		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("clientLocale", nil))
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, requestMap, map[string]string{
			middleware.TenantHeader: s.tenantID,
			"Accept-Language":       "es-MX,en;q=0.5",
		})
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		for _, testCaseGroup := range [][]testCaseAppointment{bound, missing} {
			for _, tc := range testCaseGroup {
				s.Run(tc.name, func() {
					requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

					if tc.expectCode == http.StatusCreated {
						s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
							Return(created, nil).Times(1)
					}
					rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, s.tenantID)
					if tc.expectCode == http.StatusCreated {
						httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
					} else {
						httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
					}
				})
			}
		}
	})

	s.Run("error: 400 Bad Request without a tenant", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Tenant header required")

		rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "acme")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid tenant header")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "slot taken", commandsError: errs.ErrSlotConflict, expectedStatus: http.StatusConflict, expectedMsg: "no longer available"},
			{name: "outside hours", commandsError: errs.ErrOutsideWorkingHours, expectedStatus: http.StatusBadRequest, expectedMsg: "outside working hours"},
			{name: "past date", commandsError: errs.ErrPastDate, expectedStatus: http.StatusBadRequest, expectedMsg: "in the past"},
			{name: "far future", commandsError: errs.ErrFarFuture, expectedStatus: http.StatusBadRequest, expectedMsg: "horizon"},
			{name: "unknown service", commandsError: errs.ErrServiceNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "Service not found"},
			{name: "unknown staff", commandsError: errs.ErrStaffNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "Staff not found"},
			{
				name:           "database failure",
				commandsError:  errs.Mark(errors.New("connection reset"), errs.ErrDatabaseOperationFailed),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.tenantID)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestGet() {
	a := builder.NewAppointmentBuilder().MustBuild()

	s.Run("success: returns 200 OK", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), uuid.MustParse(s.tenantID), a.ID()).
			Return(a, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/appointments/"+a.ID().String(), nil, s.tenantID)

		var body resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(a.ID(), body.ID)
		s.Equal(a.Start(), body.Start)
	})

	s.Run("error: 400 Bad Request on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/appointments/not-a-uuid", nil, s.tenantID)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 Not Found", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrAppointmentNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/appointments/"+uuid.NewString(), nil, s.tenantID)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Appointment not found")
	})
}

// ================================================================================
// TestReschedule
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestReschedule() {
	a := builder.NewAppointmentBuilder().MustBuild()
	url := "/api/appointments/" + a.ID().String() + "/reschedule"

	s.Run("success: passes the new start through", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p commands.RescheduleParams) (*appointment.Appointment, error) {
				s.Equal(a.ID(), p.AppointmentID)
				s.Equal("2025-06-04", p.Date)
				s.Equal("11:15", p.Time)
				s.Nil(p.StaffID)
				return a, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
			map[string]any{"date": "2025-06-04", "time": "11:15"}, s.tenantID)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request without a time", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
			map[string]any{"date": "2025-06-04"}, s.tenantID)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 409 Conflict when the slot is taken", func() {
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrSlotConflict).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
			map[string]any{"date": "2025-06-04", "time": "11:15"}, s.tenantID)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "no longer available")
	})
}

// ================================================================================
// TestStatusChanges
// ================================================================================

func (s *AppointmentHandlerTestSuite) TestCancel() {
	a := builder.NewAppointmentBuilder().MustBuild()
	url := "/api/appointments/" + a.ID().String() + "/cancel"

	s.Run("success: empty body cancels without a reason", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), commands.CancelParams{
			TenantID: uuid.MustParse(s.tenantID), AppointmentID: a.ID(),
		}).Return(a, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, nil, s.tenantID)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("success: reason is forwarded", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), commands.CancelParams{
			TenantID: uuid.MustParse(s.tenantID), AppointmentID: a.ID(), Reason: "sick",
		}).Return(a, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"reason": "sick"}, s.tenantID)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request on an oversized reason", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
			map[string]any{"reason": strings.Repeat("x", 501)}, s.tenantID)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 409 Conflict when already canceled", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(appointment.ErrInvalidTransition, errs.ErrInvalidState)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, nil, s.tenantID)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "cannot change")
	})
}

func (s *AppointmentHandlerTestSuite) TestConfirmAndComplete() {
	a := builder.NewAppointmentBuilder().MustBuild()
	tenantID := uuid.MustParse(s.tenantID)

	s.Run("confirm: returns 200 OK", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), tenantID, a.ID()).Return(a, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/api/appointments/"+a.ID().String()+"/confirm", nil, s.tenantID)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("complete: 409 Conflict from pending", func() {
		s.mockCommands.EXPECT().Complete(gomock.Any(), tenantID, a.ID()).
			Return(nil, errs.ErrInvalidState).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/api/appointments/"+a.ID().String()+"/complete", nil, s.tenantID)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})

	s.Run("confirm: 404 Not Found", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), tenantID, gomock.Any()).
			Return(nil, errs.ErrAppointmentNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/api/appointments/"+uuid.NewString()+"/confirm", nil, s.tenantID)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Appointment not found")
	})
}
