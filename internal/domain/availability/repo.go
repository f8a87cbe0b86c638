package availability

import (
	"context"

	"github.com/google/uuid"
)

// WorkingHoursRepository persists doctor schedules.
type WorkingHoursRepository interface {
	ReplaceForDoctor(ctx context.Context, doctorID uuid.UUID, entries []*WorkingHours) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*WorkingHours, error)
	GetForDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*WorkingHours, error)
	DeleteForDoctor(ctx context.Context, doctorID uuid.UUID) error
}
