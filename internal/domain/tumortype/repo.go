package tumortype

import (
	"context"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

type Repository interface {
	List(ctx context.Context) (*apiclient.List[TumorType], error)
	GetByID(ctx context.Context, id int) (*TumorType, error)
	Create(ctx context.Context, dto CreateDTO) (*TumorType, error)
	Update(ctx context.Context, id int, dto UpdateDTO) (*TumorType, error)
	Delete(ctx context.Context, id int) error
}
