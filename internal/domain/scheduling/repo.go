package scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/baqermajeed/farah-system-fainal/pkg/clinictime"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDateRange(ctx context.Context, from, to clinictime.LocalTime, limit, offset int) ([]*Appointment, int, error)
	ListByDoctorOnDay(ctx context.Context, doctorID uuid.UUID, day clinictime.LocalTime) ([]*Appointment, error)
}
