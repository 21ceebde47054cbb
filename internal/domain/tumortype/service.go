package tumortype

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

// Service exposes tumor types with string ids so the generic CRUD screen
// can drive it; ids are parsed back to integers here.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func parseID(id string) (int, error) {
	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid tumor type id %q", id)
	}
	return n, nil
}

func (s *Service) List(ctx context.Context) (*apiclient.List[TumorType], error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*TumorType, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, n)
}

func (s *Service) Create(ctx context.Context, in Input) (*TumorType, error) {
	if in.Name == "" || in.SystemAffected == "" {
		return nil, fmt.Errorf("name and systemAffected are required")
	}
	return s.repo.Create(ctx, in.CreateDTO())
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*TumorType, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" || in.SystemAffected == "" {
		return nil, fmt.Errorf("name and systemAffected are required")
	}
	return s.repo.Update(ctx, n, in.UpdateDTO())
}

func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, n)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return list.Pagination.TotalOr(len(list.Items)), nil
}
