package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baqermajeed/farah-system-fainal/pkg/clinictime"
)

// mockAppointmentRepo is an in-memory AppointmentRepository.
type mockAppointmentRepo struct {
	appointments map[uuid.UUID]*Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (m *mockAppointmentRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appointments[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *mockAppointmentRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		if a.PatientID == patientID {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func (m *mockAppointmentRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		if a.DoctorID == doctorID {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func (m *mockAppointmentRepo) ListByDateRange(_ context.Context, from, to clinictime.LocalTime, limit, offset int) ([]*Appointment, int, error) {
	var items []*Appointment
	for _, a := range m.appointments {
		if !a.ScheduledAt.Before(from) && a.ScheduledAt.Before(to) {
			items = append(items, a)
		}
	}
	return items, len(items), nil
}

func (m *mockAppointmentRepo) ListByDoctorOnDay(_ context.Context, doctorID uuid.UUID, day clinictime.LocalTime) ([]*Appointment, error) {
	start := day.StartOfDay()
	end := start.AddDays(1)
	var items []*Appointment
	for _, a := range m.appointments {
		if a.DoctorID == doctorID && !a.ScheduledAt.Before(start) && a.ScheduledAt.Before(end) {
			items = append(items, a)
		}
	}
	return items, nil
}

func TestCreateAppointment_Defaults(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := NewService(repo)

	a := &Appointment{
		PatientID:   uuid.New(),
		DoctorID:    uuid.New(),
		ScheduledAt: clinictime.New(2025, time.March, 10, 9, 0),
	}
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if a.Status != StatusPending {
		t.Errorf("expected default status pending, got %s", a.Status)
	}
	if a.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreateAppointment_Validation(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := NewService(repo)

	if err := svc.CreateAppointment(context.Background(), &Appointment{
		DoctorID:    uuid.New(),
		ScheduledAt: clinictime.New(2025, time.March, 10, 9, 0),
	}); err == nil {
		t.Error("expected error for missing patient_id")
	}

	if err := svc.CreateAppointment(context.Background(), &Appointment{
		PatientID:   uuid.New(),
		DoctorID:    uuid.New(),
		ScheduledAt: clinictime.New(2025, time.March, 10, 9, 0),
		Status:      "tentative",
	}); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := NewService(repo)

	a := &Appointment{
		PatientID:   uuid.New(),
		DoctorID:    uuid.New(),
		ScheduledAt: clinictime.New(2025, time.March, 10, 9, 0),
	}
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), a.ID, StatusLate)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != StatusLate {
		t.Errorf("expected late, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), a.ID, "bogus"); err == nil {
		t.Error("expected error for invalid status")
	}

	if _, err := svc.UpdateStatus(context.Background(), uuid.New(), StatusLate); err != ErrAppointmentNotFound {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestBookedTimes_ExcludesCancelled(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := NewService(repo)
	doctorID := uuid.New()
	day := clinictime.Date(2025, time.March, 10)

	mk := func(hour, min int, status string) {
		a := &Appointment{
			PatientID:   uuid.New(),
			DoctorID:    doctorID,
			ScheduledAt: day.At(hour, min),
			Status:      status,
		}
		if err := svc.CreateAppointment(context.Background(), a); err != nil {
			t.Fatalf("CreateAppointment: %v", err)
		}
	}
	mk(9, 0, StatusPending)
	mk(9, 30, StatusCancelled)
	mk(10, 0, StatusCompleted)
	mk(10, 30, StatusLate)

	times, err := svc.BookedTimes(context.Background(), doctorID, day)
	if err != nil {
		t.Fatalf("BookedTimes: %v", err)
	}

	got := make(map[string]bool, len(times))
	for _, tm := range times {
		got[tm] = true
	}
	for _, want := range []string{"09:00", "10:00", "10:30"} {
		if !got[want] {
			t.Errorf("expected %s in booked times, got %v", want, times)
		}
	}
	if got["09:30"] {
		t.Error("cancelled appointment should not block its slot")
	}
}

func TestBookedTimes_OtherDayIgnored(t *testing.T) {
	repo := newMockAppointmentRepo()
	svc := NewService(repo)
	doctorID := uuid.New()

	a := &Appointment{
		PatientID:   uuid.New(),
		DoctorID:    doctorID,
		ScheduledAt: clinictime.New(2025, time.March, 11, 9, 0),
	}
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	times, err := svc.BookedTimes(context.Background(), doctorID, clinictime.Date(2025, time.March, 10))
	if err != nil {
		t.Fatalf("BookedTimes: %v", err)
	}
	if len(times) != 0 {
		t.Errorf("expected no booked times, got %v", times)
	}
}

func TestReschedule_RecordsPreviousAndReverts(t *testing.T) {
	orig := clinictime.New(2025, time.March, 10, 9, 0)
	next := clinictime.New(2025, time.March, 12, 9, 30)

	a := &Appointment{ScheduledAt: orig, Status: StatusCompleted}
	a.Reschedule(next)

	if a.PreviousScheduledAt == nil || !a.PreviousScheduledAt.Equal(orig) {
		t.Errorf("expected previous_scheduled_at %v, got %v", orig, a.PreviousScheduledAt)
	}
	if !a.ScheduledAt.Equal(next) {
		t.Errorf("expected scheduled_at %v, got %v", next, a.ScheduledAt)
	}
	if a.Status != StatusPending {
		t.Errorf("completed appointment should revert to pending on reschedule, got %s", a.Status)
	}

	pending := &Appointment{ScheduledAt: orig, Status: StatusLate}
	pending.Reschedule(next)
	if pending.Status != StatusLate {
		t.Errorf("non-completed status should be kept, got %s", pending.Status)
	}
}
