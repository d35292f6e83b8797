//go:build unit

package api_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	domainevents "device-reservation/internal/events"
	"device-reservation/internal/handler/api"
	"device-reservation/internal/usecase/commands"
	"device-reservation/tests/common/httptest"
	eventsmock "device-reservation/tests/mock/events"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type EventsHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockCtrl  *gomock.Controller
	mockLoan  *eventsmock.MockLoanEvents
	mockStaff *eventsmock.MockStaffEvents
	handler   *api.EventsHandler
}

func (s *EventsHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockLoan = eventsmock.NewMockLoanEvents(s.mockCtrl)
	s.mockStaff = eventsmock.NewMockStaffEvents(s.mockCtrl)
	s.handler = api.NewEventsHandler(s.mockLoan, s.mockStaff)

	s.router.POST("/events/loan", s.handler.LoanEvents)
	s.router.POST("/events/staff", s.handler.StaffEvents)
}

func (s *EventsHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestEventsHandlerSuite(t *testing.T) {
	suite.Run(t, new(EventsHandlerTestSuite))
}

func (s *EventsHandlerTestSuite) envelope(eventType string, payload any) domainevents.Envelope {
	data, err := json.Marshal(payload)
	s.Require().NoError(err)
	return domainevents.Envelope{
		ID:        uuid.NewString(),
		EventType: eventType,
		Data:      data,
		EventTime: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// ================================================================================
// Subscription validation handshake
// ================================================================================

func (s *EventsHandlerTestSuite) TestSubscriptionValidation() {
	s.Run("success: echoes the validation code back synchronously", func() {
		batch := []domainevents.Envelope{
			s.envelope(domainevents.TypeSubscriptionValidation, domainevents.SubscriptionValidation{
				ValidationCode: "code-1234",
			}),
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/events/loan", batch)

		var response domainevents.ValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("code-1234", response.ValidationResponse)
	})

	s.Run("success: handshake is answered on the staff endpoint too", func() {
		batch := []domainevents.Envelope{
			s.envelope(domainevents.TypeSubscriptionValidation, domainevents.SubscriptionValidation{
				ValidationCode: "code-5678",
			}),
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/events/staff", batch)

		var response domainevents.ValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("code-5678", response.ValidationResponse)
	})

	s.Run("success: handshake short-circuits before any domain event runs", func() {
		batch := []domainevents.Envelope{
			s.envelope(domainevents.TypeLoanCreated, domainevents.LoanCreated{ReservationID: uuid.New()}),
			s.envelope(domainevents.TypeSubscriptionValidation, domainevents.SubscriptionValidation{
				ValidationCode: "code-9999",
			}),
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/events/loan", batch)

		var response domainevents.ValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("code-9999", response.ValidationResponse)
	})
}

// ================================================================================
// Loan events
// ================================================================================

func (s *EventsHandlerTestSuite) TestLoanEvents() {
	created := domainevents.LoanCreated{
		ReservationID: uuid.New(),
		UserID:        "student-1",
		DeviceID:      "device-1",
		StartDate:     time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}

	s.Run("success: dispatches Loan.Created and acknowledges", func() {
		s.mockLoan.EXPECT().HandleLoanCreated(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, ev domainevents.LoanCreated) error {
				s.Equal(created.ReservationID, ev.ReservationID)
				s.Equal(created.UserID, ev.UserID)
				return nil
			}).Times(1)

		batch := []domainevents.Envelope{s.envelope(domainevents.TypeLoanCreated, created)}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/events/loan", batch)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("success: dispatches every event in a batch", func() {
		cancelled := domainevents.LoanCancelled{ReservationID: uuid.New(), UserID: "student-1"}

		s.mockLoan.EXPECT().HandleLoanCreated(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		s.mockLoan.EXPECT().HandleLoanCancelled(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		batch := []domainevents.Envelope{
			s.envelope(domainevents.TypeLoanCreated, created),
			s.envelope(domainevents.TypeLoanCancelled, cancelled),
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/events/loan", batch)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("success: unknown event types are skipped", func() {
		batch := []domainevents.Envelope{
			s.envelope("Loan.Renewed", map[string]any{"reservationId": uuid.NewString()}),
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/events/loan", batch)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("success: domain errors are acknowledged so the bus stops retrying", func() {
		s.mockLoan.EXPECT().HandleLoanCancelled(gomock.Any(), gomock.Any()).
			Return(commands.ErrInvalidTransition).Times(1)

		cancelled := domainevents.LoanCancelled{ReservationID: uuid.New(), UserID: "student-1"}
		batch := []domainevents.Envelope{s.envelope(domainevents.TypeLoanCancelled, cancelled)}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/events/loan", batch)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: upstream failures return 500 for redelivery", func() {
		testCases := []struct {
			name    string
			loanErr error
		}{
			{name: "repository unavailable", loanErr: commands.ErrRepositoryUnavailable},
			{name: "publish failed", loanErr: commands.ErrPublishFailed},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockLoan.EXPECT().HandleLoanCreated(gomock.Any(), gomock.Any()).
					Return(tc.loanErr).Times(1)

				batch := []domainevents.Envelope{s.envelope(domainevents.TypeLoanCreated, created)}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/events/loan", batch)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Upstream unavailable")
			})
		}
	})

	s.Run("error: 400 Bad Request on a malformed batch", func() {
		rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, "/events/loan", []byte(`{"not":"a batch"`))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid event batch")
	})
}

// ================================================================================
// Staff events
// ================================================================================

func (s *EventsHandlerTestSuite) TestStaffEvents() {
	reservationID := uuid.New()

	s.Run("success: dispatches collection and return confirmations", func() {
		collect := domainevents.CollectionConfirmed{ReservationID: reservationID}
		ret := domainevents.ReturnConfirmed{ReservationID: reservationID}

		s.mockStaff.EXPECT().HandleCollectionConfirmed(gomock.Any(), collect).Return(nil).Times(1)
		s.mockStaff.EXPECT().HandleReturnConfirmed(gomock.Any(), ret).Return(nil).Times(1)

		batch := []domainevents.Envelope{
			s.envelope(domainevents.TypeCollectionConfirmed, collect),
			s.envelope(domainevents.TypeReturnConfirmed, ret),
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/events/staff", batch)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("success: confirmation for an unknown reservation is acknowledged", func() {
		collect := domainevents.CollectionConfirmed{ReservationID: reservationID}
		s.mockStaff.EXPECT().HandleCollectionConfirmed(gomock.Any(), collect).
			Return(commands.ErrReservationNotFound).Times(1)

		batch := []domainevents.Envelope{s.envelope(domainevents.TypeCollectionConfirmed, collect)}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/events/staff", batch)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: repository outage returns 500", func() {
		collect := domainevents.CollectionConfirmed{ReservationID: reservationID}
		s.mockStaff.EXPECT().HandleCollectionConfirmed(gomock.Any(), collect).
			Return(commands.ErrRepositoryUnavailable).Times(1)

		batch := []domainevents.Envelope{s.envelope(domainevents.TypeCollectionConfirmed, collect)}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/events/staff", batch)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Upstream unavailable")
	})
}
