package patient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

const endpoint = "/clinica/patients"

type httpRepo struct {
	client *apiclient.Client
}

func NewHTTPRepo(client *apiclient.Client) Repository {
	return &httpRepo{client: client}
}

func recordPath(id string) string {
	return endpoint + "/" + url.PathEscape(id)
}

func (r *httpRepo) List(ctx context.Context) (*apiclient.List[Patient], error) {
	return apiclient.GetList[Patient](ctx, r.client, endpoint)
}

func (r *httpRepo) GetByID(ctx context.Context, id string) (*Patient, error) {
	return apiclient.Send[Patient](ctx, r.client, http.MethodGet, recordPath(id), nil)
}

func (r *httpRepo) Create(ctx context.Context, dto CreateDTO) (*Patient, error) {
	return apiclient.Send[Patient](ctx, r.client, http.MethodPost, endpoint, dto)
}

func (r *httpRepo) Update(ctx context.Context, id string, dto UpdateDTO) (*Patient, error) {
	return apiclient.Send[Patient](ctx, r.client, http.MethodPut, recordPath(id), dto)
}

func (r *httpRepo) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, recordPath(id), nil)
}
