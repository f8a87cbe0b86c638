package registry

import (
	"time"

	"github.com/google/uuid"
)

// TreatmentTypeImplant is the treatment label that starts the implant
// stage workflow when assigned to a patient. Matched exactly.
const TreatmentTypeImplant = "زراعة"

type Patient struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	FullName      string      `json:"full_name" db:"full_name"`
	Phone         *string     `json:"phone,omitempty" db:"phone"`
	TreatmentType *string     `json:"treatment_type,omitempty" db:"treatment_type"`
	DoctorIDs     []uuid.UUID `json:"doctor_ids"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// HasDoctor reports whether the doctor is assigned to this patient.
func (p *Patient) HasDoctor(doctorID uuid.UUID) bool {
	for _, id := range p.DoctorIDs {
		if id == doctorID {
			return true
		}
	}
	return false
}

type Doctor struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Specialty *string   `json:"specialty,omitempty" db:"specialty"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
