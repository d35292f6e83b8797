package readstore

import (
	"context"
	"errors"
	"time"

	"device-reservation/internal/infra"
	"device-reservation/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reservationsTable = "reservations"

var dialect = goqu.Dialect("postgres")

var viewColumns = []any{
	"id", "user_id", "device_id", "start_date", "due_date", "status",
	"waitlist_position", "created_at", "updated_at",
	"confirmed_at", "cancelled_at", "completed_at",
}

// ReservationReadStore serves the query side straight from the
// reservations table; the service is small enough that no separate read
// model is maintained.
type ReservationReadStore struct {
	pool *pgxpool.Pool
}

func NewReservationReadStore(pool *pgxpool.Pool) *ReservationReadStore {
	return &ReservationReadStore{pool: pool}
}

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	query, args, err := dialect.From(reservationsTable).
		Select(viewColumns...).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build select query", err)
	}

	view, err := scanView(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by id", err)
	}
	return view, nil
}

func (s *ReservationReadStore) FindByUser(ctx context.Context, userID string) ([]*queries.ReservationView, error) {
	query, args, err := dialect.From(reservationsTable).
		Select(viewColumns...).
		Where(goqu.C("user_id").Eq(userID)).
		Order(goqu.C("created_at").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build select query", err)
	}
	return s.queryMany(ctx, query, args)
}

func (s *ReservationReadStore) FindAll(ctx context.Context) ([]*queries.ReservationView, error) {
	query, args, err := dialect.From(reservationsTable).
		Select(viewColumns...).
		Order(goqu.C("created_at").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build select query", err)
	}
	return s.queryMany(ctx, query, args)
}

func (s *ReservationReadStore) queryMany(ctx context.Context, query string, args []any) ([]*queries.ReservationView, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	var result []*queries.ReservationView
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	return result, nil
}

func scanView(row pgx.Row) (*queries.ReservationView, error) {
	var (
		view             queries.ReservationView
		waitlistPosition *int
		confirmedAt      *time.Time
		cancelledAt      *time.Time
		completedAt      *time.Time
	)
	err := row.Scan(
		&view.ID, &view.UserID, &view.DeviceID, &view.StartDate, &view.DueDate,
		&view.Status, &waitlistPosition, &view.CreatedAt, &view.UpdatedAt,
		&confirmedAt, &cancelledAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	view.WaitlistPosition = waitlistPosition
	view.ConfirmedAt = confirmedAt
	view.CancelledAt = cancelledAt
	view.CompletedAt = completedAt
	return &view, nil
}
