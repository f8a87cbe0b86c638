package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baqermajeed/farah-system-fainal/pkg/clinictime"
)

// Reasons returned by IsSlotAvailable when a slot cannot be booked.
const (
	ReasonNotWorkingDay = "doctor is not working on this day"
	ReasonOutsideHours  = "time is outside working hours"
	ReasonOffGrid       = "time does not align with the slot grid"
	ReasonBooked        = "slot is already booked"
)

// BookedTimesSource reports the "HH:MM" times already taken for a doctor
// on a given day. The appointment service satisfies it.
type BookedTimesSource interface {
	BookedTimes(ctx context.Context, doctorID uuid.UUID, date clinictime.LocalTime) ([]string, error)
}

type Service struct {
	hours        WorkingHoursRepository
	booked       BookedTimesSource
	defaultStart string
}

func NewService(hours WorkingHoursRepository, booked BookedTimesSource, defaultStart string) *Service {
	return &Service{hours: hours, booked: booked, defaultStart: defaultStart}
}

// SetWorkingHours replaces the doctor's full schedule after validating
// every entry. At most one entry per weekday.
func (s *Service) SetWorkingHours(ctx context.Context, doctorID uuid.UUID, entries []*WorkingHours) error {
	seen := make(map[int]bool, len(entries))
	for _, w := range entries {
		if err := w.Validate(); err != nil {
			return err
		}
		if seen[w.DayOfWeek] {
			return fmt.Errorf("duplicate entry for day_of_week %d", w.DayOfWeek)
		}
		seen[w.DayOfWeek] = true
	}
	return s.hours.ReplaceForDoctor(ctx, doctorID, entries)
}

func (s *Service) GetWorkingHours(ctx context.Context, doctorID uuid.UUID) ([]*WorkingHours, error) {
	return s.hours.ListByDoctor(ctx, doctorID)
}

func (s *Service) DeleteWorkingHours(ctx context.Context, doctorID uuid.UUID) error {
	return s.hours.DeleteForDoctor(ctx, doctorID)
}

// FirstWorkingStart returns the doctor's start time for the given date's
// weekday, falling back to the configured default when no working entry
// exists. Missing schedule rows are not an error.
func (s *Service) FirstWorkingStart(ctx context.Context, doctorID uuid.UUID, date clinictime.LocalTime) (string, error) {
	w, err := s.hours.GetForDay(ctx, doctorID, date.Weekday())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.defaultStart, nil
		}
		return "", err
	}
	if !w.IsWorking {
		return s.defaultStart, nil
	}
	return w.StartTime, nil
}

// AvailableSlots lists the open "HH:MM" slots for the doctor on the given
// day. Non-working days yield an empty list.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date clinictime.LocalTime) ([]string, error) {
	w, err := s.hours.GetForDay(ctx, doctorID, date.Weekday())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []string{}, nil
		}
		return nil, err
	}
	if !w.IsWorking {
		return []string{}, nil
	}

	booked, err := s.booked.BookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}

	startH, startM, _ := clinictime.ParseHHMM(w.StartTime)
	endH, endM, _ := clinictime.ParseHHMM(w.EndTime)
	start := startH*60 + startM
	end := endH*60 + endM

	// a slot is offered whenever it starts inside the window, even when
	// the window is not a multiple of the slot duration
	slots := []string{}
	for cur := start; cur < end; cur += w.SlotDuration {
		hhmm := fmt.Sprintf("%02d:%02d", cur/60, cur%60)
		if !taken[hhmm] {
			slots = append(slots, hhmm)
		}
	}
	return slots, nil
}

// IsSlotAvailable reports whether the doctor can be booked at the given
// time, with the first failing reason.
func (s *Service) IsSlotAvailable(ctx context.Context, doctorID uuid.UUID, date clinictime.LocalTime, hhmm string) (bool, string, error) {
	w, err := s.hours.GetForDay(ctx, doctorID, date.Weekday())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ReasonNotWorkingDay, nil
		}
		return false, "", err
	}
	if !w.IsWorking {
		return false, ReasonNotWorkingDay, nil
	}

	h, m, err := clinictime.ParseHHMM(hhmm)
	if err != nil {
		return false, "", fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	at := h*60 + m

	startH, startM, _ := clinictime.ParseHHMM(w.StartTime)
	endH, endM, _ := clinictime.ParseHHMM(w.EndTime)
	start := startH*60 + startM
	end := endH*60 + endM

	if at < start || at >= end {
		return false, ReasonOutsideHours, nil
	}
	if (at-start)%w.SlotDuration != 0 {
		return false, ReasonOffGrid, nil
	}

	booked, err := s.booked.BookedTimes(ctx, doctorID, date)
	if err != nil {
		return false, "", err
	}
	canonical := fmt.Sprintf("%02d:%02d", h, m)
	for _, t := range booked {
		if t == canonical {
			return false, ReasonBooked, nil
		}
	}
	return true, "", nil
}
