package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/baqermajeed/farah-system-fainal/pkg/clinictime"
)

// Appointment statuses. The implant sequencer only ever writes pending and
// completed; reception marks no-shows as late and cancels by hand.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusLate      = "late"
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusCompleted: true,
	StatusCancelled: true, StatusLate: true,
}

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s string) bool { return validStatuses[s] }

// Appointment maps to the appointment table. Scheduled times are clinic-local
// wall-clock values. PreviousScheduledAt keeps the date an appointment held
// before its last reschedule; StageName back-references the implant stage the
// appointment mirrors, when there is one.
type Appointment struct {
	ID                  uuid.UUID             `db:"id" json:"id"`
	PatientID           uuid.UUID             `db:"patient_id" json:"patient_id"`
	DoctorID            uuid.UUID             `db:"doctor_id" json:"doctor_id"`
	ScheduledAt         clinictime.LocalTime  `db:"scheduled_at" json:"scheduled_at"`
	PreviousScheduledAt *clinictime.LocalTime `db:"previous_scheduled_at" json:"previous_scheduled_at,omitempty"`
	Status              string                `db:"status" json:"status"`
	StageName           *string               `db:"stage_name" json:"stage_name,omitempty"`
	Note                *string               `db:"note" json:"note,omitempty"`
	CreatedAt           time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time             `db:"updated_at" json:"updated_at"`
}

// Reschedule moves the appointment to newDate, recording the old date and
// reverting a completed appointment back to pending.
func (a *Appointment) Reschedule(newDate clinictime.LocalTime) {
	prev := a.ScheduledAt
	a.PreviousScheduledAt = &prev
	a.ScheduledAt = newDate
	if a.Status == StatusCompleted {
		a.Status = StatusPending
	}
}
