package tumortype

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

const endpoint = "/clinica/tumor-types"

type httpRepo struct {
	client *apiclient.Client
}

func NewHTTPRepo(client *apiclient.Client) Repository {
	return &httpRepo{client: client}
}

func recordPath(id int) string {
	return endpoint + "/" + strconv.Itoa(id)
}

// List only accepts the enveloped shape; a bare array is a contract error.
func (r *httpRepo) List(ctx context.Context) (*apiclient.List[TumorType], error) {
	return apiclient.GetList[TumorType](ctx, r.client, endpoint)
}

func (r *httpRepo) GetByID(ctx context.Context, id int) (*TumorType, error) {
	return apiclient.Send[TumorType](ctx, r.client, http.MethodGet, recordPath(id), nil)
}

func (r *httpRepo) Create(ctx context.Context, dto CreateDTO) (*TumorType, error) {
	return apiclient.Send[TumorType](ctx, r.client, http.MethodPost, endpoint, dto)
}

func (r *httpRepo) Update(ctx context.Context, id int, dto UpdateDTO) (*TumorType, error) {
	return apiclient.Send[TumorType](ctx, r.client, http.MethodPut, recordPath(id), dto)
}

func (r *httpRepo) Delete(ctx context.Context, id int) error {
	return r.client.Delete(ctx, recordPath(id), nil)
}
