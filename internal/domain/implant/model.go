package implant

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/baqermajeed/farah-system-fainal/pkg/clinictime"
)

// DoctorRef is the stage's owner. Stages created before a doctor touched
// them are unclaimed; the first doctor to act on them claims the whole set.
type DoctorRef struct {
	id      uuid.UUID
	claimed bool
}

func Unclaimed() DoctorRef { return DoctorRef{} }

func OwnedBy(id uuid.UUID) DoctorRef { return DoctorRef{id: id, claimed: true} }

func (r DoctorRef) Claimed() bool { return r.claimed }

// DoctorID returns the owning doctor. Only meaningful when Claimed.
func (r DoctorRef) DoctorID() uuid.UUID { return r.id }

func (r DoctorRef) MarshalJSON() ([]byte, error) {
	if !r.claimed {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

func (r *DoctorRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Unclaimed()
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*r = OwnedBy(id)
	return nil
}

// Stage is one step of a patient's implant plan. At most one row per
// (patient, doctor, stage_name); stages are never deleted.
type Stage struct {
	ID            uuid.UUID            `json:"id"`
	PatientID     uuid.UUID            `json:"patient_id"`
	Doctor        DoctorRef            `json:"doctor_id"`
	StageName     string               `json:"stage_name"`
	Display       string               `json:"display_name"`
	ScheduledAt   clinictime.LocalTime `json:"scheduled_at"`
	IsCompleted   bool                 `json:"is_completed"`
	AppointmentID *uuid.UUID           `json:"appointment_id,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
