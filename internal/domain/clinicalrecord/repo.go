package clinicalrecord

import (
	"context"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

type Repository interface {
	List(ctx context.Context) (*apiclient.List[ClinicalRecord], error)
	ListByPatient(ctx context.Context, patientID string) (*apiclient.List[ClinicalRecord], error)
	GetByID(ctx context.Context, id string) (*ClinicalRecord, error)
	Create(ctx context.Context, dto CreateDTO) (*ClinicalRecord, error)
	Update(ctx context.Context, id string, dto UpdateDTO) (*ClinicalRecord, error)
	Delete(ctx context.Context, id string) error
}
