package availability

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baqermajeed/farah-system-fainal/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type workingHoursRepoPG struct{ pool *pgxpool.Pool }

func NewWorkingHoursRepoPG(pool *pgxpool.Pool) WorkingHoursRepository {
	return &workingHoursRepoPG{pool: pool}
}

func (r *workingHoursRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const hoursCols = `id, doctor_id, day_of_week, is_working, start_time, end_time,
	slot_duration, created_at, updated_at`

func scanWorkingHours(row pgx.Row) (*WorkingHours, error) {
	var w WorkingHours
	err := row.Scan(&w.ID, &w.DoctorID, &w.DayOfWeek, &w.IsWorking, &w.StartTime,
		&w.EndTime, &w.SlotDuration, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ReplaceForDoctor swaps the doctor's full schedule in one transaction.
func (r *workingHoursRepoPG) ReplaceForDoctor(ctx context.Context, doctorID uuid.UUID, entries []*WorkingHours) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM working_hours WHERE doctor_id = $1`, doctorID); err != nil {
		return err
	}
	for _, w := range entries {
		w.ID = uuid.New()
		w.DoctorID = doctorID
		err := tx.QueryRow(ctx, `
			INSERT INTO working_hours (id, doctor_id, day_of_week, is_working, start_time, end_time, slot_duration)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, updated_at`,
			w.ID, w.DoctorID, w.DayOfWeek, w.IsWorking, w.StartTime, w.EndTime, w.SlotDuration,
		).Scan(&w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *workingHoursRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*WorkingHours, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+hoursCols+` FROM working_hours
		WHERE doctor_id = $1
		ORDER BY day_of_week`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*WorkingHours
	for rows.Next() {
		w, err := scanWorkingHours(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, w)
	}
	return entries, rows.Err()
}

func (r *workingHoursRepoPG) GetForDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*WorkingHours, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT `+hoursCols+` FROM working_hours
		WHERE doctor_id = $1 AND day_of_week = $2`, doctorID, dayOfWeek)
	return scanWorkingHours(row)
}

func (r *workingHoursRepoPG) DeleteForDoctor(ctx context.Context, doctorID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM working_hours WHERE doctor_id = $1`, doctorID)
	return err
}
