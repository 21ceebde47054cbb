package patient

import (
	"context"
	"fmt"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

// Service is the patients resource as the CRUD screen sees it.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) (*apiclient.List[Patient], error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*Patient, error) {
	if in.FirstName == "" || in.LastName == "" || in.BirthDate == "" {
		return nil, fmt.Errorf("firstName, lastName and birthDate are required")
	}
	if in.Gender == "" {
		in.Gender = GenderUnspecified
	}
	if !in.Gender.Valid() {
		return nil, fmt.Errorf("invalid gender: %s", in.Gender)
	}
	return s.repo.Create(ctx, in.CreateDTO())
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*Patient, error) {
	if id == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	if in.Gender != "" && !in.Gender.Valid() {
		return nil, fmt.Errorf("invalid gender: %s", in.Gender)
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, fmt.Errorf("invalid status: %s", in.Status)
	}
	return s.repo.Update(ctx, id, in.UpdateDTO())
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Count returns the number of patients, preferring the server's total.
func (s *Service) Count(ctx context.Context) (int, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return list.Pagination.TotalOr(len(list.Items)), nil
}
