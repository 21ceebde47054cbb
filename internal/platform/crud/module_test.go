package crud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
)

type rec struct {
	ID   string
	Name string
}

type input struct {
	Name string
}

// -- Mock Resource --

type mockResource struct {
	records   []rec
	calls     []string
	listErr   error
	createErr error
	updateErr error
	deleteErr error
	nextID    int
}

func (m *mockResource) List(_ context.Context) (*apiclient.List[rec], error) {
	m.calls = append(m.calls, "list")
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]rec, len(m.records))
	copy(out, m.records)
	return &apiclient.List[rec]{Items: out}, nil
}

func (m *mockResource) Create(_ context.Context, in input) (*rec, error) {
	m.calls = append(m.calls, "create")
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	r := rec{ID: fmt.Sprintf("r-%d", m.nextID), Name: in.Name}
	m.records = append(m.records, r)
	return &r, nil
}

func (m *mockResource) Update(_ context.Context, id string, in input) (*rec, error) {
	m.calls = append(m.calls, "update:"+id)
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].Name = in.Name
			return &m.records[i], nil
		}
	}
	return nil, &apiclient.APIError{Status: http.StatusNotFound, Message: "not found"}
}

func (m *mockResource) Delete(_ context.Context, id string) error {
	m.calls = append(m.calls, "delete:"+id)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func newTestModule(res *mockResource) *Module[rec, input] {
	return New[rec, input]("records", res, func(r rec) string { return r.ID }, Messages{
		LoadFailed:    "Error al cargar registros",
		SaveFailed:    "Error al guardar el registro",
		DeleteFailed:  "Error al eliminar el registro",
		ConfirmDelete: "¿Estás seguro de eliminar este registro?",
	}, zerolog.Nop())
}

func always(answer bool) Confirmer {
	return ConfirmFunc(func(string) bool { return answer })
}

func TestLoad_Ready(t *testing.T) {
	res := &mockResource{records: []rec{{ID: "r-1", Name: "a"}}}
	m := newTestModule(res)
	if m.Phase() != PhaseLoading {
		t.Fatalf("expected loading before fetch, got %s", m.Phase())
	}
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Phase() != PhaseReady {
		t.Errorf("expected ready, got %s", m.Phase())
	}
	if len(m.Items()) != 1 || m.Total() != 1 {
		t.Errorf("unexpected items: %v", m.Items())
	}
}

func TestLoad_Failed(t *testing.T) {
	res := &mockResource{listErr: errors.New("connection refused")}
	m := newTestModule(res)
	if err := m.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if m.Phase() != PhaseFailed {
		t.Errorf("expected failed, got %s", m.Phase())
	}
	if m.LoadError() != "Error al cargar registros" {
		t.Errorf("expected fallback message, got %q", m.LoadError())
	}
	if m.Items() == nil {
		t.Error("expected non-nil list after failure")
	}
}

func TestLoad_APIErrorMessage(t *testing.T) {
	res := &mockResource{listErr: &apiclient.APIError{Status: 500, Message: "HTTP 500: Internal Server Error"}}
	m := newTestModule(res)
	_ = m.Load(context.Background())
	if m.LoadError() != "HTTP 500: Internal Server Error" {
		t.Errorf("expected API message, got %q", m.LoadError())
	}
}

func TestLoad_ContractErrorKeepsModuleUsable(t *testing.T) {
	res := &mockResource{listErr: &apiclient.ContractError{Endpoint: "/x", Expected: "array", Raw: []byte(`{"data":{}}`)}}
	m := newTestModule(res)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Phase() != PhaseReady {
		t.Errorf("expected ready, got %s", m.Phase())
	}
	d := m.Data()
	if d.Invalid == nil {
		t.Error("expected raw payload for the diagnostic panel")
	}
	if d.Rows == nil || len(d.Rows) != 0 {
		t.Errorf("expected empty non-nil rows, got %v", d.Rows)
	}
}

func TestSubmit_CreateWhenNoPayload(t *testing.T) {
	res := &mockResource{}
	m := newTestModule(res)
	_ = m.Load(context.Background())

	m.Create()
	if err := m.Submit(context.Background(), input{Name: "nuevo"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"list", "create", "list"}
	if fmt.Sprint(res.calls) != fmt.Sprint(want) {
		t.Errorf("expected calls %v, got %v", want, res.calls)
	}
	if m.Modal.IsOpen() {
		t.Error("expected modal closed after save")
	}
	if len(m.Items()) != 1 {
		t.Errorf("expected refetched list with new record, got %v", m.Items())
	}
}

func TestSubmit_UpdateWhenPayload(t *testing.T) {
	res := &mockResource{records: []rec{{ID: "r-9", Name: "viejo"}}}
	m := newTestModule(res)
	_ = m.Load(context.Background())

	row, ok := m.Find("r-9")
	if !ok {
		t.Fatal("expected record to be found")
	}
	m.Edit(*row)
	if err := m.Submit(context.Background(), input{Name: "nuevo"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.calls[1] != "update:r-9" {
		t.Errorf("expected update call, got %v", res.calls)
	}
	if m.Items()[0].Name != "nuevo" {
		t.Errorf("expected refetched value, got %v", m.Items())
	}
}

func TestSubmit_FailureRaisesAlertAndKeepsList(t *testing.T) {
	res := &mockResource{records: []rec{{ID: "r-1", Name: "a"}}, createErr: errors.New("boom")}
	m := newTestModule(res)
	_ = m.Load(context.Background())

	m.Create()
	if err := m.Submit(context.Background(), input{Name: "b"}); err == nil {
		t.Fatal("expected error")
	}
	if m.Alert() != "Error al guardar el registro" {
		t.Errorf("expected save alert, got %q", m.Alert())
	}
	if len(m.Items()) != 1 || m.Phase() != PhaseReady {
		t.Error("expected list view untouched")
	}
	if !m.Modal.IsOpen() {
		t.Error("expected modal to stay open")
	}
	if len(res.calls) != 2 {
		t.Errorf("expected no refetch after failure, got %v", res.calls)
	}

	m.DismissAlert()
	if m.Alert() != "" {
		t.Error("expected alert dismissed")
	}
}

func TestDelete_Declined(t *testing.T) {
	res := &mockResource{records: []rec{{ID: "r-1"}}}
	m := newTestModule(res)
	_ = m.Load(context.Background())

	var prompt string
	deleted, err := m.Delete(context.Background(), "r-1", ConfirmFunc(func(p string) bool {
		prompt = p
		return false
	}))
	if err != nil || deleted {
		t.Fatalf("expected no delete, got deleted=%v err=%v", deleted, err)
	}
	if prompt != "¿Estás seguro de eliminar este registro?" {
		t.Errorf("expected confirm prompt, got %q", prompt)
	}
	if len(res.calls) != 1 {
		t.Errorf("expected no API call, got %v", res.calls)
	}
	if len(m.Items()) != 1 {
		t.Error("expected list unchanged")
	}
}

func TestDelete_NilConfirmerDeclines(t *testing.T) {
	res := &mockResource{records: []rec{{ID: "r-1"}}}
	m := newTestModule(res)
	deleted, _ := m.Delete(context.Background(), "r-1", nil)
	if deleted || len(res.calls) != 0 {
		t.Error("expected nil confirmer to decline")
	}
}

func TestDelete_AcceptedRefetches(t *testing.T) {
	res := &mockResource{records: []rec{{ID: "r-1"}, {ID: "r-2"}}}
	m := newTestModule(res)
	_ = m.Load(context.Background())

	deleted, err := m.Delete(context.Background(), "r-1", always(true))
	if err != nil || !deleted {
		t.Fatalf("expected delete, got deleted=%v err=%v", deleted, err)
	}
	want := []string{"list", "delete:r-1", "list"}
	if fmt.Sprint(res.calls) != fmt.Sprint(want) {
		t.Errorf("expected calls %v, got %v", want, res.calls)
	}
	if len(m.Items()) != 1 {
		t.Errorf("expected one remaining record, got %v", m.Items())
	}
}

func TestDelete_FailureRaisesAlert(t *testing.T) {
	res := &mockResource{records: []rec{{ID: "r-1"}}, deleteErr: errors.New("boom")}
	m := newTestModule(res)
	_ = m.Load(context.Background())

	if _, err := m.Delete(context.Background(), "r-1", always(true)); err == nil {
		t.Fatal("expected error")
	}
	if m.Alert() != "Error al eliminar el registro" {
		t.Errorf("expected delete alert, got %q", m.Alert())
	}
	if len(m.Items()) != 1 {
		t.Error("expected list untouched")
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseReady.String() != "ready" || Phase(9).String() != "unknown" {
		t.Error("unexpected phase names")
	}
}
