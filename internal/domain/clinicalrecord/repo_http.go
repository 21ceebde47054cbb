package clinicalrecord

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

const endpoint = "/clinica/clinical-records"

type httpRepo struct {
	client *apiclient.Client
}

func NewHTTPRepo(client *apiclient.Client) Repository {
	return &httpRepo{client: client}
}

func recordPath(id string) string {
	return endpoint + "/" + url.PathEscape(id)
}

func (r *httpRepo) List(ctx context.Context) (*apiclient.List[ClinicalRecord], error) {
	return apiclient.GetList[ClinicalRecord](ctx, r.client, endpoint)
}

func (r *httpRepo) ListByPatient(ctx context.Context, patientID string) (*apiclient.List[ClinicalRecord], error) {
	return apiclient.GetList[ClinicalRecord](ctx, r.client, "/clinica/patients/"+url.PathEscape(patientID)+"/clinical-records")
}

func (r *httpRepo) GetByID(ctx context.Context, id string) (*ClinicalRecord, error) {
	return apiclient.Send[ClinicalRecord](ctx, r.client, http.MethodGet, recordPath(id), nil)
}

func (r *httpRepo) Create(ctx context.Context, dto CreateDTO) (*ClinicalRecord, error) {
	return apiclient.Send[ClinicalRecord](ctx, r.client, http.MethodPost, endpoint, dto)
}

func (r *httpRepo) Update(ctx context.Context, id string, dto UpdateDTO) (*ClinicalRecord, error) {
	return apiclient.Send[ClinicalRecord](ctx, r.client, http.MethodPut, recordPath(id), dto)
}

func (r *httpRepo) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, recordPath(id), nil)
}
