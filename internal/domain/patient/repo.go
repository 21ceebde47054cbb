package patient

import (
	"context"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

type Repository interface {
	List(ctx context.Context) (*apiclient.List[Patient], error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	Create(ctx context.Context, dto CreateDTO) (*Patient, error)
	Update(ctx context.Context, id string, dto UpdateDTO) (*Patient, error)
	Delete(ctx context.Context, id string) error
}
