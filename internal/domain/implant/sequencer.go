package implant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/baqermajeed/farah-system-fainal/internal/domain/registry"
	"github.com/baqermajeed/farah-system-fainal/internal/domain/scheduling"
	"github.com/baqermajeed/farah-system-fainal/pkg/clinictime"
)

var (
	ErrStageNotFound  = errors.New("stage not found")
	ErrUnknownStage   = errors.New("unknown stage")
	ErrNotYourPatient = errors.New("not your patient")
)

// PredecessorError reports an out-of-order completion attempt. Stage is the
// catalog name that must be completed first.
type PredecessorError struct {
	Stage string
}

func (e *PredecessorError) Error() string {
	return fmt.Sprintf("stage %q must be completed first", e.Stage)
}

// AppointmentMirror is the slice of the appointment store the sequencer
// needs to keep stage dates and statuses mirrored on the clinic board.
type AppointmentMirror interface {
	Create(ctx context.Context, a *scheduling.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error)
	Update(ctx context.Context, a *scheduling.Appointment) error
}

type PatientSource interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*registry.Patient, error)
}

// StartTimeSource yields the doctor's "HH:MM" start for a date's weekday.
type StartTimeSource interface {
	FirstWorkingStart(ctx context.Context, doctorID uuid.UUID, date clinictime.LocalTime) (string, error)
}

// Sequencer drives a patient's implant stages through the catalog order,
// keeping one mirrored appointment per stage.
type Sequencer struct {
	stages   StageRepository
	appts    AppointmentMirror
	patients PatientSource
	calendar StartTimeSource
	log      zerolog.Logger
}

func NewSequencer(stages StageRepository, appts AppointmentMirror, patients PatientSource, calendar StartTimeSource, log zerolog.Logger) *Sequencer {
	return &Sequencer{stages: stages, appts: appts, patients: patients, calendar: calendar, log: log}
}

// authorize loads the patient and checks the acting doctor is assigned to
// them. Initialize and List skip this check.
func (s *Sequencer) authorize(ctx context.Context, patientID, doctorID uuid.UUID) (*registry.Patient, error) {
	p, err := s.patients.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !p.HasDoctor(doctorID) {
		return nil, ErrNotYourPatient
	}
	return p, nil
}

// snap moves a date to the doctor's start time for that day.
func (s *Sequencer) snap(ctx context.Context, doctorID uuid.UUID, date clinictime.LocalTime) (clinictime.LocalTime, error) {
	start, err := s.calendar.FirstWorkingStart(ctx, doctorID, date)
	if err != nil {
		return clinictime.LocalTime{}, err
	}
	return date.AtHHMM(start)
}

// Initialize sets up the implant plan for a (patient, doctor) pair. It is
// idempotent: existing stages for the pair are returned as-is; unclaimed
// stages for the patient are claimed by the doctor; otherwise the first
// catalog stage is created for today with a pending appointment.
func (s *Sequencer) Initialize(ctx context.Context, patientID, doctorID uuid.UUID) ([]*Stage, error) {
	if _, err := s.patients.GetPatient(ctx, patientID); err != nil {
		return nil, err
	}

	owned, err := s.stages.ListForDoctor(ctx, patientID, doctorID)
	if err != nil {
		return nil, err
	}
	if len(owned) > 0 {
		return owned, nil
	}

	unclaimed, err := s.stages.ListUnclaimed(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(unclaimed) > 0 {
		for _, st := range unclaimed {
			st.Doctor = OwnedBy(doctorID)
			if err := s.stages.Update(ctx, st); err != nil {
				return nil, err
			}
		}
		return unclaimed, nil
	}

	scheduledAt, err := s.snap(ctx, doctorID, clinictime.Today())
	if err != nil {
		return nil, err
	}
	st, err := s.createStage(ctx, patientID, doctorID, 0, scheduledAt)
	if err != nil {
		return nil, err
	}
	return []*Stage{st}, nil
}

// createStage inserts a pending stage together with its mirrored
// appointment.
func (s *Sequencer) createStage(ctx context.Context, patientID, doctorID uuid.UUID, index int, scheduledAt clinictime.LocalTime) (*Stage, error) {
	name := Catalog[index].Name
	appt := &scheduling.Appointment{
		PatientID:   patientID,
		DoctorID:    doctorID,
		ScheduledAt: scheduledAt,
		Status:      scheduling.StatusPending,
		StageName:   &name,
	}
	if err := s.appts.Create(ctx, appt); err != nil {
		return nil, err
	}
	st := &Stage{
		PatientID:     patientID,
		Doctor:        OwnedBy(doctorID),
		StageName:     name,
		ScheduledAt:   scheduledAt,
		AppointmentID: &appt.ID,
	}
	if err := s.stages.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// resolve finds the named stage for the doctor, claiming it if unclaimed.
func (s *Sequencer) resolve(ctx context.Context, patientID, doctorID uuid.UUID, stageName string) (*Stage, int, error) {
	idx := StageIndex(stageName)
	if idx < 0 {
		return nil, 0, ErrUnknownStage
	}
	st, err := s.stages.FindForDoctor(ctx, patientID, doctorID, stageName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrStageNotFound
		}
		return nil, 0, err
	}
	if !st.Doctor.Claimed() {
		st.Doctor = OwnedBy(doctorID)
		if err := s.stages.Update(ctx, st); err != nil {
			return nil, 0, err
		}
	}
	return st, idx, nil
}

// Complete marks a stage done, mirrors the appointment, and schedules or
// reschedules the next catalog stage from this one's date.
func (s *Sequencer) Complete(ctx context.Context, patientID, doctorID uuid.UUID, stageName string) (*Stage, error) {
	if _, err := s.authorize(ctx, patientID, doctorID); err != nil {
		return nil, err
	}
	st, idx, err := s.resolve(ctx, patientID, doctorID, stageName)
	if err != nil {
		return nil, err
	}

	if idx > 0 {
		prevName := Catalog[idx-1].Name
		prev, err := s.stages.FindForDoctor(ctx, patientID, doctorID, prevName)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &PredecessorError{Stage: prevName}
			}
			return nil, err
		}
		if !prev.IsCompleted {
			return nil, &PredecessorError{Stage: prevName}
		}
	}

	st.IsCompleted = true
	if err := s.stages.Update(ctx, st); err != nil {
		return nil, err
	}
	s.mirrorStatus(ctx, st, scheduling.StatusCompleted)

	if !IsLast(idx) {
		s.recomputeNext(ctx, patientID, doctorID, idx, st.ScheduledAt, true, false)
	}
	return st, nil
}

// Uncomplete reverts a completed stage to pending and pulls the next
// stage's date back in line. The next stage is only updated if it already
// exists.
func (s *Sequencer) Uncomplete(ctx context.Context, patientID, doctorID uuid.UUID, stageName string) (*Stage, error) {
	if _, err := s.authorize(ctx, patientID, doctorID); err != nil {
		return nil, err
	}
	st, idx, err := s.resolve(ctx, patientID, doctorID, stageName)
	if err != nil {
		return nil, err
	}

	st.IsCompleted = false
	if err := s.stages.Update(ctx, st); err != nil {
		return nil, err
	}
	s.mirrorStatus(ctx, st, scheduling.StatusPending)

	if !IsLast(idx) {
		s.recomputeNext(ctx, patientID, doctorID, idx, st.ScheduledAt, false, true)
	}
	return st, nil
}

// UpdateDate moves a stage to an arbitrary date, then cascades forward:
// every later catalog stage that exists is recomputed from its
// predecessor's date. A missing intermediate stage still advances the
// predecessor position (so the day gap is taken from the missing stage)
// while the anchor date stays at the last stage that was found.
func (s *Sequencer) UpdateDate(ctx context.Context, patientID, doctorID uuid.UUID, stageName string, newDate clinictime.LocalTime) (*Stage, error) {
	if _, err := s.authorize(ctx, patientID, doctorID); err != nil {
		return nil, err
	}
	st, idx, err := s.resolve(ctx, patientID, doctorID, stageName)
	if err != nil {
		return nil, err
	}

	st.ScheduledAt = newDate
	if err := s.stages.Update(ctx, st); err != nil {
		return nil, err
	}
	s.mirrorReschedule(ctx, st, false)

	anchorIdx, anchorDate := idx, newDate
	for i := idx + 1; i < len(Catalog); i++ {
		next, err := s.stages.FindForDoctor(ctx, patientID, doctorID, Catalog[i].Name)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				anchorIdx = i
				continue
			}
			s.logCascade(err, patientID, Catalog[i].Name)
			continue
		}
		target, err := s.snap(ctx, doctorID, anchorDate.AddDays(DaysToNext(anchorIdx)))
		if err != nil {
			s.logCascade(err, patientID, Catalog[i].Name)
			continue
		}
		next.ScheduledAt = target
		next.IsCompleted = false
		if err := s.stages.Update(ctx, next); err != nil {
			s.logCascade(err, patientID, Catalog[i].Name)
			continue
		}
		s.mirrorReschedule(ctx, next, false)
		anchorIdx, anchorDate = i, target
	}
	return st, nil
}

// List returns a patient's stages. A doctor sees their own stages; a
// doctor with no plan yet claims any unclaimed stages on first read.
// Other viewers see everything.
func (s *Sequencer) List(ctx context.Context, patientID, viewerDoctor uuid.UUID) ([]*Stage, error) {
	if _, err := s.patients.GetPatient(ctx, patientID); err != nil {
		return nil, err
	}
	if viewerDoctor == uuid.Nil {
		return s.stages.ListByPatient(ctx, patientID)
	}

	owned, err := s.stages.ListForDoctor(ctx, patientID, viewerDoctor)
	if err != nil {
		return nil, err
	}
	if len(owned) > 0 {
		return owned, nil
	}

	unclaimed, err := s.stages.ListUnclaimed(ctx, patientID)
	if err != nil {
		return nil, err
	}
	for _, st := range unclaimed {
		st.Doctor = OwnedBy(viewerDoctor)
		if err := s.stages.Update(ctx, st); err != nil {
			return nil, err
		}
	}
	return unclaimed, nil
}

// recomputeNext moves the stage after fromIdx to the computed follow-up
// date. When create is set a missing next stage is created; otherwise a
// missing next stage is left alone. forcePending drops the next
// appointment to pending regardless of its current status.
func (s *Sequencer) recomputeNext(ctx context.Context, patientID, doctorID uuid.UUID, fromIdx int, fromDate clinictime.LocalTime, create, forcePending bool) {
	nextName := Catalog[fromIdx+1].Name
	target, err := s.snap(ctx, doctorID, fromDate.AddDays(DaysToNext(fromIdx)))
	if err != nil {
		s.logCascade(err, patientID, nextName)
		return
	}

	next, err := s.stages.FindForDoctor(ctx, patientID, doctorID, nextName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if !create {
				return
			}
			if _, err := s.createStage(ctx, patientID, doctorID, fromIdx+1, target); err != nil {
				s.logCascade(err, patientID, nextName)
			}
			return
		}
		s.logCascade(err, patientID, nextName)
		return
	}

	next.ScheduledAt = target
	next.IsCompleted = false
	if err := s.stages.Update(ctx, next); err != nil {
		s.logCascade(err, patientID, nextName)
		return
	}
	s.mirrorReschedule(ctx, next, forcePending)
}

// mirrorStatus writes the stage's status to its appointment, creating and
// linking a fresh one if the stage has none. Mirror failures are logged,
// not returned: the stage write already happened.
func (s *Sequencer) mirrorStatus(ctx context.Context, st *Stage, status string) {
	appt, ok := s.mirrorOf(ctx, st, status)
	if !ok {
		return
	}
	appt.Status = status
	if err := s.appts.Update(ctx, appt); err != nil {
		s.logCascade(err, st.PatientID, st.StageName)
	}
}

// mirrorReschedule moves the stage's appointment to the stage date,
// recording the old date. Completed appointments revert to pending;
// forcePending reverts any status. A stage with no appointment gets a
// fresh pending one at the stage date.
func (s *Sequencer) mirrorReschedule(ctx context.Context, st *Stage, forcePending bool) {
	appt, ok := s.mirrorOf(ctx, st, scheduling.StatusPending)
	if !ok {
		return
	}
	appt.Reschedule(st.ScheduledAt)
	if forcePending {
		appt.Status = scheduling.StatusPending
	}
	if err := s.appts.Update(ctx, appt); err != nil {
		s.logCascade(err, st.PatientID, st.StageName)
	}
}

// mirrorOf loads the stage's appointment. When the stage has none (or the
// linked record is gone) a fresh appointment is created with the given
// status and linked; the second return is false then and on lookup
// failure, meaning the caller has nothing left to write.
func (s *Sequencer) mirrorOf(ctx context.Context, st *Stage, createStatus string) (*scheduling.Appointment, bool) {
	if st.AppointmentID != nil {
		appt, err := s.appts.GetByID(ctx, *st.AppointmentID)
		if err == nil {
			return appt, true
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logCascade(err, st.PatientID, st.StageName)
			return nil, false
		}
	}

	name := st.StageName
	appt := &scheduling.Appointment{
		PatientID:   st.PatientID,
		DoctorID:    st.Doctor.DoctorID(),
		ScheduledAt: st.ScheduledAt,
		Status:      createStatus,
		StageName:   &name,
	}
	if err := s.appts.Create(ctx, appt); err != nil {
		s.logCascade(err, st.PatientID, st.StageName)
		return nil, false
	}
	st.AppointmentID = &appt.ID
	if err := s.stages.Update(ctx, st); err != nil {
		s.logCascade(err, st.PatientID, st.StageName)
	}
	return nil, false
}

func (s *Sequencer) logCascade(err error, patientID uuid.UUID, stageName string) {
	s.log.Error().Err(err).
		Str("patient_id", patientID.String()).
		Str("stage", stageName).
		Msg("stage cascade write failed")
}
