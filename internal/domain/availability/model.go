package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/baqermajeed/farah-system-fainal/pkg/clinictime"
)

// WorkingHours is one doctor's schedule entry for a single weekday.
// day_of_week follows the clinic convention: 0 = Sunday.
type WorkingHours struct {
	ID           uuid.UUID `json:"id" db:"id"`
	DoctorID     uuid.UUID `json:"doctor_id" db:"doctor_id"`
	DayOfWeek    int       `json:"day_of_week" db:"day_of_week"`
	IsWorking    bool      `json:"is_working" db:"is_working"`
	StartTime    string    `json:"start_time" db:"start_time"`
	EndTime      string    `json:"end_time" db:"end_time"`
	SlotDuration int       `json:"slot_duration" db:"slot_duration"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks a single entry before it is persisted.
func (w *WorkingHours) Validate() error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be between 0 and 6, got %d", w.DayOfWeek)
	}
	if !w.IsWorking {
		return nil
	}
	startH, startM, err := clinictime.ParseHHMM(w.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start_time %q: %w", w.StartTime, err)
	}
	endH, endM, err := clinictime.ParseHHMM(w.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end_time %q: %w", w.EndTime, err)
	}
	if startH*60+startM >= endH*60+endM {
		return fmt.Errorf("start_time %s must be before end_time %s", w.StartTime, w.EndTime)
	}
	if w.SlotDuration < 15 || w.SlotDuration > 120 || w.SlotDuration%15 != 0 {
		return fmt.Errorf("slot_duration must be a multiple of 15 between 15 and 120, got %d", w.SlotDuration)
	}
	return nil
}
