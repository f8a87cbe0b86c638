package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrDoctorNotFound  = errors.New("doctor not found")
)

// StageInitializer starts the implant stage workflow for a patient under a
// doctor. Wired at startup; kept as an interface so the registry does not
// depend on the implant package.
type StageInitializer interface {
	Initialize(ctx context.Context, patientID, doctorID uuid.UUID) error
}

// InitializerFunc adapts a function to StageInitializer.
type InitializerFunc func(ctx context.Context, patientID, doctorID uuid.UUID) error

func (f InitializerFunc) Initialize(ctx context.Context, patientID, doctorID uuid.UUID) error {
	return f(ctx, patientID, doctorID)
}

type Service struct {
	patients    PatientRepository
	doctors     DoctorRepository
	initializer StageInitializer
	log         zerolog.Logger
}

func NewService(patients PatientRepository, doctors DoctorRepository, log zerolog.Logger) *Service {
	return &Service{patients: patients, doctors: doctors, log: log}
}

// SetStageInitializer installs the implant workflow trigger. Called once
// during wiring.
func (s *Service) SetStageInitializer(init StageInitializer) {
	s.initializer = init
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return err
	}
	p.DoctorIDs = []uuid.UUID{}
	return nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) AssignDoctor(ctx context.Context, patientID, doctorID uuid.UUID) error {
	if _, err := s.GetPatient(ctx, patientID); err != nil {
		return err
	}
	if _, err := s.GetDoctor(ctx, doctorID); err != nil {
		return err
	}
	return s.patients.AssignDoctor(ctx, patientID, doctorID)
}

// SetTreatmentType updates the patient's treatment type. Assigning the
// implant keyword starts the stage workflow for the acting doctor; a
// workflow failure is logged and does not undo the update.
func (s *Service) SetTreatmentType(ctx context.Context, patientID uuid.UUID, treatmentType *string, actingDoctor uuid.UUID) (*Patient, error) {
	p, err := s.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	p.TreatmentType = treatmentType
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}

	if treatmentType != nil && *treatmentType == TreatmentTypeImplant &&
		actingDoctor != uuid.Nil && s.initializer != nil {
		if err := s.initializer.Initialize(ctx, patientID, actingDoctor); err != nil {
			s.log.Error().Err(err).
				Str("patient_id", patientID.String()).
				Str("doctor_id", actingDoctor.String()).
				Msg("implant stage initialization failed")
		}
	}
	return p, nil
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}
