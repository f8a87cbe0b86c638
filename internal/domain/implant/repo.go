package implant

import (
	"context"

	"github.com/google/uuid"
)

// StageRepository persists implant stages. FindForDoctor and the doctor
// listings treat unclaimed stages as visible to every doctor; claiming is
// the sequencer's job.
type StageRepository interface {
	Create(ctx context.Context, st *Stage) error
	Update(ctx context.Context, st *Stage) error
	FindForDoctor(ctx context.Context, patientID, doctorID uuid.UUID, stageName string) (*Stage, error)
	ListForDoctor(ctx context.Context, patientID, doctorID uuid.UUID) ([]*Stage, error)
	ListUnclaimed(ctx context.Context, patientID uuid.UUID) ([]*Stage, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Stage, error)
}
