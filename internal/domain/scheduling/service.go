package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baqermajeed/farah-system-fainal/pkg/clinictime"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

type Service struct {
	appointments AppointmentRepository
}

func NewService(appointments AppointmentRepository) *Service {
	return &Service{appointments: appointments}
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if !ValidStatus(a.Status) {
		return fmt.Errorf("invalid appointment status: %s", a.Status)
	}
	return s.appointments.Create(ctx, a)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	return a, err
}

// UpdateStatus moves an appointment to the given status. Reception uses this
// to mark no-shows late or cancel; the sequencer drives pending/completed
// through its own flow.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("invalid appointment status: %s", status)
	}
	a, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = status
	if err := s.appointments.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) ListByDateRange(ctx context.Context, from, to clinictime.LocalTime, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByDateRange(ctx, from, to, limit, offset)
}

// BookedTimes returns the "HH:MM" times already taken for a doctor on the
// given day. Cancelled appointments do not block a slot.
func (s *Service) BookedTimes(ctx context.Context, doctorID uuid.UUID, date clinictime.LocalTime) ([]string, error) {
	appts, err := s.appointments.ListByDoctorOnDay(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	var times []string
	for _, a := range appts {
		if a.Status == StatusCancelled {
			continue
		}
		times = append(times, a.ScheduledAt.HHMM())
	}
	return times, nil
}
