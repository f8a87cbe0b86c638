package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.patients {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *mockPatientRepo) AssignDoctor(_ context.Context, patientID, doctorID uuid.UUID) error {
	p, ok := m.patients[patientID]
	if !ok {
		return pgx.ErrNoRows
	}
	if !p.HasDoctor(doctorID) {
		p.DoctorIDs = append(p.DoctorIDs, doctorID)
	}
	return nil
}

type mockDoctorRepo struct {
	doctors map[uuid.UUID]*Doctor
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (m *mockDoctorRepo) List(_ context.Context, limit, offset int) ([]*Doctor, int, error) {
	var out []*Doctor
	for _, d := range m.doctors {
		out = append(out, d)
	}
	return out, len(out), nil
}

type recordingInitializer struct {
	calls []struct{ patientID, doctorID uuid.UUID }
	err   error
}

func (r *recordingInitializer) Initialize(_ context.Context, patientID, doctorID uuid.UUID) error {
	r.calls = append(r.calls, struct{ patientID, doctorID uuid.UUID }{patientID, doctorID})
	return r.err
}

func newTestService() (*Service, *mockPatientRepo, *mockDoctorRepo) {
	patients := newMockPatientRepo()
	doctors := newMockDoctorRepo()
	return NewService(patients, doctors, zerolog.Nop()), patients, doctors
}

func TestCreatePatient_RequiresName(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.CreatePatient(context.Background(), &Patient{}); err == nil {
		t.Error("expected error for missing full_name")
	}
}

func TestGetPatient_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.GetPatient(context.Background(), uuid.New()); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestAssignDoctor(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	p := &Patient{FullName: "سارة حسن"}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	d := &Doctor{FullName: "د. علي كريم"}
	if err := svc.CreateDoctor(ctx, d); err != nil {
		t.Fatalf("CreateDoctor: %v", err)
	}

	if err := svc.AssignDoctor(ctx, p.ID, d.ID); err != nil {
		t.Fatalf("AssignDoctor: %v", err)
	}
	got, err := svc.GetPatient(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPatient: %v", err)
	}
	if !got.HasDoctor(d.ID) {
		t.Error("expected doctor to be assigned")
	}

	if err := svc.AssignDoctor(ctx, p.ID, uuid.New()); !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestSetTreatmentType_TriggersImplantWorkflow(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	init := &recordingInitializer{}
	svc.SetStageInitializer(init)

	p := &Patient{FullName: "سارة حسن"}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	doctorID := uuid.New()

	implant := TreatmentTypeImplant
	got, err := svc.SetTreatmentType(ctx, p.ID, &implant, doctorID)
	if err != nil {
		t.Fatalf("SetTreatmentType: %v", err)
	}
	if got.TreatmentType == nil || *got.TreatmentType != TreatmentTypeImplant {
		t.Errorf("treatment type not stored: %v", got.TreatmentType)
	}
	if len(init.calls) != 1 {
		t.Fatalf("expected one workflow trigger, got %d", len(init.calls))
	}
	if init.calls[0].patientID != p.ID || init.calls[0].doctorID != doctorID {
		t.Error("workflow triggered with wrong ids")
	}
}

func TestSetTreatmentType_NoTriggerCases(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	init := &recordingInitializer{}
	svc.SetStageInitializer(init)

	p := &Patient{FullName: "سارة حسن"}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}

	other := "تقويم"
	if _, err := svc.SetTreatmentType(ctx, p.ID, &other, uuid.New()); err != nil {
		t.Fatalf("SetTreatmentType: %v", err)
	}
	implant := TreatmentTypeImplant
	if _, err := svc.SetTreatmentType(ctx, p.ID, &implant, uuid.Nil); err != nil {
		t.Fatalf("SetTreatmentType: %v", err)
	}
	if len(init.calls) != 0 {
		t.Errorf("expected no workflow trigger, got %d", len(init.calls))
	}
}

func TestSetTreatmentType_WorkflowFailureDoesNotUndoWrite(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	svc.SetStageInitializer(&recordingInitializer{err: errors.New("boom")})

	p := &Patient{FullName: "سارة حسن"}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}

	implant := TreatmentTypeImplant
	got, err := svc.SetTreatmentType(ctx, p.ID, &implant, uuid.New())
	if err != nil {
		t.Fatalf("SetTreatmentType should succeed despite workflow failure: %v", err)
	}
	if got.TreatmentType == nil || *got.TreatmentType != TreatmentTypeImplant {
		t.Error("treatment type should still be stored")
	}
}
