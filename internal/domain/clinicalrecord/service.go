package clinicalrecord

import (
	"context"
	"fmt"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) (*apiclient.List[ClinicalRecord], error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) (*apiclient.List[ClinicalRecord], error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) Get(ctx context.Context, id string) (*ClinicalRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*ClinicalRecord, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in.CreateDTO())
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*ClinicalRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("clinical record id is required")
	}
	if err := check(in); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in.UpdateDTO())
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return list.Pagination.TotalOr(len(list.Items)), nil
}

// ForPatient returns the same resource with listing narrowed to one patient.
func (s *Service) ForPatient(patientID string) *PatientScope {
	return &PatientScope{Service: s, patientID: patientID}
}

type PatientScope struct {
	*Service
	patientID string
}

func (p *PatientScope) List(ctx context.Context) (*apiclient.List[ClinicalRecord], error) {
	return p.Service.ListByPatient(ctx, p.patientID)
}

func check(in Input) error {
	switch {
	case in.PatientID == "":
		return fmt.Errorf("patientId is required")
	case in.TumorTypeID <= 0:
		return fmt.Errorf("tumorTypeId must be positive")
	case in.DiagnosisDate == "" || in.Stage == "" || in.TreatmentProtocol == "":
		return fmt.Errorf("diagnosisDate, stage and treatmentProtocol are required")
	}
	return nil
}
