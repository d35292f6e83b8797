package repository

import (
	"context"
	"errors"
	"time"

	"device-reservation/internal/domain/reservation"
	"device-reservation/internal/infra"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reservationsTable = "reservations"

// unique_violation
const pgErrCodeDuplicateKey = "23505"

var dialect = goqu.Dialect("postgres")

var reservationColumns = []any{
	"id", "user_id", "device_id", "start_date", "due_date", "status",
	"waitlist_position", "created_at", "updated_at",
	"confirmed_at", "cancelled_at", "completed_at",
}

type reservationRow struct {
	ID               uuid.UUID
	UserID           string
	DeviceID         string
	StartDate        time.Time
	DueDate          time.Time
	Status           string
	WaitlistPosition *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ConfirmedAt      *time.Time
	CancelledAt      *time.Time
	CompletedAt      *time.Time
}

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	query, args, err := dialect.Insert(reservationsTable).
		Rows(toRecord(res)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build insert query", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		if isDuplicateKey(err) {
			return infra.WrapRepoErr("reservation already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	query, args, err := dialect.From(reservationsTable).
		Select(reservationColumns...).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build select query", err)
	}

	row, err := scanRow(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by id", err)
	}
	return toEntity(row), nil
}

func (r *ReservationRepository) FindByUser(ctx context.Context, userID string) ([]*reservation.Reservation, error) {
	query, args, err := dialect.From(reservationsTable).
		Select(reservationColumns...).
		Where(goqu.C("user_id").Eq(userID)).
		Order(goqu.C("created_at").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build select query", err)
	}
	return r.queryMany(ctx, query, args, "failed to find reservations by user")
}

func (r *ReservationRepository) FindActiveByDevice(ctx context.Context, deviceID string) ([]*reservation.Reservation, error) {
	query, args, err := dialect.From(reservationsTable).
		Select(reservationColumns...).
		Where(
			goqu.C("device_id").Eq(deviceID),
			goqu.C("status").In(
				reservation.StatusPending.String(),
				reservation.StatusConfirmed.String(),
			),
		).
		Order(goqu.C("created_at").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build select query", err)
	}
	return r.queryMany(ctx, query, args, "failed to find active reservations by device")
}

// Update writes the whole record back with upsert semantics. Last write
// wins; there is no version check.
func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	rec := toRecord(res)
	query, args, err := dialect.Insert(reservationsTable).
		Rows(rec).
		OnConflict(goqu.DoUpdate("id", rec)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build upsert query", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	return nil
}

func (r *ReservationRepository) queryMany(ctx context.Context, query string, args []any, errMsg string) ([]*reservation.Reservation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(errMsg, err)
	}
	defer rows.Close()

	var result []*reservation.Reservation
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(errMsg, err)
		}
		result = append(result, toEntity(row))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(errMsg, err)
	}
	return result, nil
}

func scanRow(row pgx.Row) (reservationRow, error) {
	var rec reservationRow
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.DeviceID, &rec.StartDate, &rec.DueDate,
		&rec.Status, &rec.WaitlistPosition, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.ConfirmedAt, &rec.CancelledAt, &rec.CompletedAt,
	)
	return rec, err
}

func toRecord(res *reservation.Reservation) goqu.Record {
	return goqu.Record{
		"id":                res.ID(),
		"user_id":           res.UserID(),
		"device_id":         res.DeviceID(),
		"start_date":        res.StartDate(),
		"due_date":          res.DueDate(),
		"status":            res.Status().String(),
		"waitlist_position": res.WaitlistPosition(),
		"created_at":        res.CreatedAt(),
		"updated_at":        res.UpdatedAt(),
		"confirmed_at":      res.ConfirmedAt(),
		"cancelled_at":      res.CancelledAt(),
		"completed_at":      res.CompletedAt(),
	}
}

func toEntity(rec reservationRow) *reservation.Reservation {
	return reservation.ReconstructReservation(
		rec.ID,
		rec.UserID,
		rec.DeviceID,
		rec.StartDate,
		rec.DueDate,
		reservation.Status(rec.Status),
		rec.WaitlistPosition,
		rec.CreatedAt,
		rec.UpdatedAt,
		rec.ConfirmedAt,
		rec.CancelledAt,
		rec.CompletedAt,
	)
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeDuplicateKey
}
