package implant

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baqermajeed/farah-system-fainal/internal/platform/db"
	"github.com/baqermajeed/farah-system-fainal/pkg/clinictime"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type stageRepoPG struct{ pool *pgxpool.Pool }

func NewStageRepoPG(pool *pgxpool.Pool) StageRepository {
	return &stageRepoPG{pool: pool}
}

func (r *stageRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const stageCols = `id, patient_id, doctor_id, stage_name, scheduled_at, is_completed,
	appointment_id, created_at, updated_at`

func scanStage(row pgx.Row) (*Stage, error) {
	var st Stage
	var doctorID *uuid.UUID
	var scheduledAt time.Time
	err := row.Scan(&st.ID, &st.PatientID, &doctorID, &st.StageName, &scheduledAt,
		&st.IsCompleted, &st.AppointmentID, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if doctorID != nil {
		st.Doctor = OwnedBy(*doctorID)
	} else {
		st.Doctor = Unclaimed()
	}
	st.ScheduledAt = clinictime.FromTime(scheduledAt)
	if i := StageIndex(st.StageName); i >= 0 {
		st.Display = Catalog[i].Display
	}
	return &st, nil
}

func doctorColumn(st *Stage) *uuid.UUID {
	if !st.Doctor.Claimed() {
		return nil
	}
	id := st.Doctor.DoctorID()
	return &id
}

func (r *stageRepoPG) Create(ctx context.Context, st *Stage) error {
	st.ID = uuid.New()
	if i := StageIndex(st.StageName); i >= 0 {
		st.Display = Catalog[i].Display
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO implant_stage (id, patient_id, doctor_id, stage_name, scheduled_at, is_completed, appointment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		st.ID, st.PatientID, doctorColumn(st), st.StageName, st.ScheduledAt.Time(),
		st.IsCompleted, st.AppointmentID,
	).Scan(&st.CreatedAt, &st.UpdatedAt)
}

func (r *stageRepoPG) Update(ctx context.Context, st *Stage) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE implant_stage
		SET doctor_id = $2, scheduled_at = $3, is_completed = $4, appointment_id = $5, updated_at = NOW()
		WHERE id = $1`,
		st.ID, doctorColumn(st), st.ScheduledAt.Time(), st.IsCompleted, st.AppointmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// FindForDoctor resolves a stage visible to the doctor: their own record
// for the stage, or an unclaimed one. Owned records win.
func (r *stageRepoPG) FindForDoctor(ctx context.Context, patientID, doctorID uuid.UUID, stageName string) (*Stage, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT `+stageCols+` FROM implant_stage
		WHERE patient_id = $1 AND stage_name = $2 AND (doctor_id = $3 OR doctor_id IS NULL)
		ORDER BY doctor_id NULLS LAST
		LIMIT 1`, patientID, stageName, doctorID)
	return scanStage(row)
}

func (r *stageRepoPG) ListForDoctor(ctx context.Context, patientID, doctorID uuid.UUID) ([]*Stage, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+stageCols+` FROM implant_stage
		WHERE patient_id = $1 AND doctor_id = $2`, patientID, doctorID)
	if err != nil {
		return nil, err
	}
	return collectStages(rows)
}

func (r *stageRepoPG) ListUnclaimed(ctx context.Context, patientID uuid.UUID) ([]*Stage, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+stageCols+` FROM implant_stage
		WHERE patient_id = $1 AND doctor_id IS NULL`, patientID)
	if err != nil {
		return nil, err
	}
	return collectStages(rows)
}

func (r *stageRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Stage, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+stageCols+` FROM implant_stage
		WHERE patient_id = $1`, patientID)
	if err != nil {
		return nil, err
	}
	return collectStages(rows)
}

func collectStages(rows pgx.Rows) ([]*Stage, error) {
	defer rows.Close()
	var stages []*Stage
	for rows.Next() {
		st, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		stages = append(stages, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortByCatalog(stages)
	return stages, nil
}

// sortByCatalog orders stages by treatment-plan position rather than by
// date, which can be edited out of order.
func sortByCatalog(stages []*Stage) {
	sort.SliceStable(stages, func(i, j int) bool {
		return StageIndex(stages[i].StageName) < StageIndex(stages[j].StageName)
	})
}
