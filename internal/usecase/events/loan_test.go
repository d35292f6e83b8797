//go:build unit

package events_test

import (
	"context"
	"testing"
	"time"

	"device-reservation/internal/domain/reservation"
	domainevents "device-reservation/internal/events"
	"device-reservation/internal/infra"
	"device-reservation/internal/pkg/clock"
	"device-reservation/internal/usecase/commands"
	usecaseevents "device-reservation/internal/usecase/events"
	"device-reservation/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	repo      *fake.ReservationRepository
	publisher *fake.EventPublisher
	clock     *clock.MockClock
	loan      usecaseevents.LoanEvents
	staff     usecaseevents.StaffEvents
}

func newFixture() *fixture {
	repo := fake.NewReservationRepository()
	publisher := fake.NewEventPublisher()
	mockClock := clock.NewMockClock(baseTime)
	cmds := commands.NewReservationCommands(repo, publisher, mockClock)
	return &fixture{
		repo:      repo,
		publisher: publisher,
		clock:     mockClock,
		loan:      usecaseevents.NewLoanEvents(repo, publisher, cmds, mockClock),
		staff:     usecaseevents.NewStaffEvents(cmds),
	}
}

func loanCreated(id uuid.UUID) domainevents.LoanCreated {
	return domainevents.LoanCreated{
		ReservationID: id,
		UserID:        "student-1",
		DeviceID:      "device-1",
		StartDate:     baseTime,
	}
}

func TestHandleLoanCreated(t *testing.T) {
	t.Run("materializes and confirms a reservation under the loan's id", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()

		require.NoError(t, f.loan.HandleLoanCreated(context.Background(), loanCreated(id)))

		stored := f.repo.Get(id)
		require.NotNil(t, stored)
		assert.Equal(t, reservation.StatusConfirmed, stored.Status())
		assert.Equal(t, "student-1", stored.UserID())
		assert.Equal(t, baseTime.AddDate(0, 0, reservation.StandardLoanDays), stored.DueDate())

		require.Len(t, f.publisher.EventsOfType(domainevents.TypeReservationConfirmed), 1)
	})

	t.Run("redelivery leaves a single confirmed record", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		ev := loanCreated(id)

		require.NoError(t, f.loan.HandleLoanCreated(context.Background(), ev))
		f.clock.Add(time.Minute)
		require.NoError(t, f.loan.HandleLoanCreated(context.Background(), ev))

		assert.Equal(t, 1, f.repo.Count())
		stored := f.repo.Get(id)
		assert.Equal(t, reservation.StatusConfirmed, stored.Status())
		require.NotNil(t, stored.ConfirmedAt())
		assert.Equal(t, baseTime, *stored.ConfirmedAt())

		// Each delivery re-publishes the confirmation; consumers dedupe.
		assert.Len(t, f.publisher.EventsOfType(domainevents.TypeReservationConfirmed), 2)
	})

	t.Run("repository outage is surfaced for redelivery", func(t *testing.T) {
		f := newFixture()
		f.repo.FailNext = infra.WrapRepoErr("connection refused", nil)

		err := f.loan.HandleLoanCreated(context.Background(), loanCreated(uuid.New()))
		require.ErrorIs(t, err, commands.ErrRepositoryUnavailable)
	})
}

func TestHandleLoanCancelled(t *testing.T) {
	t.Run("cancels the reservation and promotes the waitlist", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		require.NoError(t, f.loan.HandleLoanCreated(context.Background(), loanCreated(id)))

		f.clock.Add(time.Minute)
		waiting := domainevents.LoanCreated{
			ReservationID: uuid.New(),
			UserID:        "student-2",
			DeviceID:      "device-1",
			StartDate:     f.clock.Now(),
		}
		// The second loan's reservation starts out pending on the waitlist.
		pending := reservation.NewReservation(waiting.ReservationID, waiting.UserID, waiting.DeviceID, waiting.StartDate, f.clock.Now())
		require.NoError(t, pending.PlaceOnWaitlist(1, f.clock.Now()))
		require.NoError(t, f.repo.Create(context.Background(), pending))

		ev := domainevents.LoanCancelled{ReservationID: id, UserID: "student-1"}
		require.NoError(t, f.loan.HandleLoanCancelled(context.Background(), ev))

		assert.Equal(t, reservation.StatusCancelled, f.repo.Get(id).Status())
		assert.Equal(t, reservation.StatusConfirmed, f.repo.Get(waiting.ReservationID).Status())
	})

	t.Run("cancellation for a reservation that never materialized is acknowledged", func(t *testing.T) {
		f := newFixture()

		ev := domainevents.LoanCancelled{ReservationID: uuid.New(), UserID: "student-1"}
		require.NoError(t, f.loan.HandleLoanCancelled(context.Background(), ev))
		assert.Equal(t, 0, f.repo.Count())
	})

	t.Run("out-of-order cancel before create leaves the later create confirmed", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()

		cancel := domainevents.LoanCancelled{ReservationID: id, UserID: "student-1"}
		require.NoError(t, f.loan.HandleLoanCancelled(context.Background(), cancel))

		// The create arrives afterwards and still succeeds on its own.
		require.NoError(t, f.loan.HandleLoanCreated(context.Background(), loanCreated(id)))
		assert.Equal(t, reservation.StatusConfirmed, f.repo.Get(id).Status())
	})
}

func TestStaffEvents(t *testing.T) {
	t.Run("collection and return confirmations drive the loan to completion", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		require.NoError(t, f.loan.HandleLoanCreated(context.Background(), loanCreated(id)))

		collect := domainevents.CollectionConfirmed{ReservationID: id}
		require.NoError(t, f.staff.HandleCollectionConfirmed(context.Background(), collect))
		assert.Equal(t, reservation.StatusCollected, f.repo.Get(id).Status())

		ret := domainevents.ReturnConfirmed{ReservationID: id}
		require.NoError(t, f.staff.HandleReturnConfirmed(context.Background(), ret))
		assert.Equal(t, reservation.StatusReturned, f.repo.Get(id).Status())

		require.Len(t, f.publisher.EventsOfType(domainevents.TypeReservationCollected), 1)
		require.Len(t, f.publisher.EventsOfType(domainevents.TypeReservationReturned), 1)
	})

	t.Run("duplicate collection confirmation is a no-op success", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		require.NoError(t, f.loan.HandleLoanCreated(context.Background(), loanCreated(id)))

		collect := domainevents.CollectionConfirmed{ReservationID: id}
		require.NoError(t, f.staff.HandleCollectionConfirmed(context.Background(), collect))
		require.NoError(t, f.staff.HandleCollectionConfirmed(context.Background(), collect))

		assert.Equal(t, reservation.StatusCollected, f.repo.Get(id).Status())
	})

	t.Run("collection for an unknown reservation fails", func(t *testing.T) {
		f := newFixture()

		collect := domainevents.CollectionConfirmed{ReservationID: uuid.New()}
		err := f.staff.HandleCollectionConfirmed(context.Background(), collect)
		require.ErrorIs(t, err, commands.ErrReservationNotFound)
	})
}
