package clinicalrecord

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ReyXerxezz/genosentinel/internal/platform/web"
)

func newTestServer(t *testing.T, repo *mockRepo) *echo.Echo {
	t.Helper()
	r, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	e.HTTPErrorHandler = web.ErrorHandler(zerolog.Nop())
	NewHandler(NewService(repo), zerolog.Nop(), "/app", nil, nil).RegisterRoutes(e.Group("/app"))
	return e
}

func TestHandler_ListRendersColumns(t *testing.T) {
	repo := newMockRepo()
	repo.records = []ClinicalRecord{{ID: "cr-1", PatientID: "p-9", TumorTypeID: 4, DiagnosisDate: "2024-05-06", Stage: "III", TreatmentProtocol: "Radioterapia"}}
	e := newTestServer(t, repo)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/clinical-records", nil))

	body := rec.Body.String()
	for _, want := range []string{"Registros Clínicos", "Paciente ID", "p-9", "6/5/2024", "badge-info", "Radioterapia"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body", want)
		}
	}
}

func TestHandler_PatientFilter(t *testing.T) {
	repo := newMockRepo()
	repo.records = []ClinicalRecord{
		{ID: "cr-1", PatientID: "p-1", TreatmentProtocol: "Cirugía"},
		{ID: "cr-2", PatientID: "p-2", TreatmentProtocol: "Hormonoterapia"},
	}
	e := newTestServer(t, repo)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/clinical-records?patient=p-1", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "Cirugía") || strings.Contains(body, "Hormonoterapia") {
		t.Error("expected only the patient's records")
	}
	if len(repo.byPatient) != 1 {
		t.Errorf("expected patient listing, got %v", repo.byPatient)
	}
}

func TestHandler_NewFormDefaultsDate(t *testing.T) {
	now = func() time.Time { return time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC) }
	defer func() { now = time.Now }()
	e := newTestServer(t, newMockRepo())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/clinical-records?modal=new", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `value="2025-03-09"`) {
		t.Error("expected diagnosis date defaulted to today")
	}
	if !strings.Contains(body, "Estado IV") || !strings.Contains(body, "Describa el protocolo de tratamiento") {
		t.Error("expected stage options and protocol placeholder")
	}
}

func TestHandler_SubmitValidation(t *testing.T) {
	repo := newMockRepo()
	e := newTestServer(t, repo)

	form := url.Values{"patientId": {"p-1"}, "tumorTypeId": {"0"}, "diagnosisDate": {"2024-01-01"}, "stage": {"I"}, "treatmentProtocol": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/app/clinical-records", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Debe seleccionar un tipo de tumor") {
		t.Error("expected inline error")
	}
	if len(repo.created) != 0 {
		t.Error("expected no create")
	}
}

func TestHandler_SubmitUpdate(t *testing.T) {
	repo := newMockRepo()
	repo.records = []ClinicalRecord{{ID: "cr-1", PatientID: "p-1", TumorTypeID: 2, DiagnosisDate: "2024-01-01", Stage: "I", TreatmentProtocol: "Cirugía"}}
	e := newTestServer(t, repo)

	form := url.Values{"id": {"cr-1"}, "patientId": {"p-1"}, "tumorTypeId": {"2"}, "diagnosisDate": {"2024-01-01"}, "stage": {"II"}, "treatmentProtocol": {"Cirugía"}}
	req := httptest.NewRequest(http.MethodPost, "/app/clinical-records", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	dto, ok := repo.updated["cr-1"]
	if !ok || *dto.Stage != "II" {
		t.Errorf("expected update with stage II, got %+v", dto)
	}
}

func TestHandler_PatientFilterCarriedThroughLinks(t *testing.T) {
	repo := newMockRepo()
	repo.records = []ClinicalRecord{{ID: "cr-1", PatientID: "p-1", TreatmentProtocol: "Cirugía"}}
	e := newTestServer(t, repo)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/clinical-records?patient=p-1&modal=new", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`action="/app/clinical-records?patient=p-1"`,
		`?modal=edit&amp;id=cr-1&amp;patient=p-1`,
		`?confirm_delete=cr-1&amp;patient=p-1`,
		`href="/app/clinical-records?modal=new&amp;patient=p-1"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body", want)
		}
	}
}

func TestHandler_DeleteKeepsPatientFilter(t *testing.T) {
	repo := newMockRepo()
	repo.records = []ClinicalRecord{{ID: "cr-1", PatientID: "p-1"}}
	e := newTestServer(t, repo)

	form := url.Values{"confirm": {"yes"}}
	req := httptest.NewRequest(http.MethodPost, "/app/clinical-records/cr-1/delete?patient=p-1", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/app/clinical-records?patient=p-1" {
		t.Errorf("expected redirect to the filtered list, got %q", loc)
	}
	if len(repo.records) != 0 {
		t.Error("expected record deleted")
	}
}

func TestHandler_SaveFromFilteredViewRefetchesPatient(t *testing.T) {
	repo := newMockRepo()
	e := newTestServer(t, repo)

	form := url.Values{"patientId": {"p-1"}, "tumorTypeId": {"3"}, "diagnosisDate": {"2024-01-01"}, "stage": {"I"}, "treatmentProtocol": {"Cirugía"}}
	req := httptest.NewRequest(http.MethodPost, "/app/clinical-records?patient=p-1", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one create, got %d", len(repo.created))
	}
	// One listing before the save and one after it.
	if len(repo.byPatient) != 2 {
		t.Errorf("expected patient listings only, got %v", repo.byPatient)
	}
}
