package clinicalrecord

import (
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ReyXerxezz/genosentinel/internal/platform/crud"
	"github.com/ReyXerxezz/genosentinel/internal/platform/form"
	"github.com/ReyXerxezz/genosentinel/internal/platform/table"
	"github.com/ReyXerxezz/genosentinel/internal/platform/web"
)

var Messages = crud.Messages{
	LoadFailed:    "Error al cargar registros",
	SaveFailed:    "Error al guardar el registro",
	DeleteFailed:  "Error al eliminar el registro",
	ConfirmDelete: "¿Estás seguro de eliminar este registro clínico?",
}

// now seeds the diagnosis date of a new record.
var now = time.Now

type Handler struct {
	screen *web.Screen[ClinicalRecord, Input, Field]
}

// NewHandler builds the clinical records screen. ?patient=ID lists only that
// patient's records and stays on every link and form of the screen.
func NewHandler(svc *Service, logger zerolog.Logger, prefix string, nav []web.NavItem, stats web.StatsSource) *Handler {
	base := prefix + "/clinical-records"
	id := func(r ClinicalRecord) string { return r.ID }

	return &Handler{screen: &web.Screen[ClinicalRecord, Input, Field]{
		Prefix:      prefix,
		Path:        "/clinical-records",
		Title:       "Registros Clínicos",
		Heading:     "Registros Clínicos",
		TotalLabel:  "Total de registros",
		NewLabel:    "Nuevo Registro",
		CreateTitle: "Nuevo Registro Clínico",
		EditTitle:   "Editar Registro Clínico",
		NewModule: func(c echo.Context) *crud.Module[ClinicalRecord, Input] {
			var res crud.Resource[ClinicalRecord, Input] = svc
			if pid := c.QueryParam("patient"); pid != "" {
				res = svc.ForPatient(pid)
			}
			return crud.New[ClinicalRecord, Input]("clinical-records", res, id, Messages, logger)
		},
		Table: &table.Table[ClinicalRecord]{
			Columns:   columns(),
			RowID:     id,
			EditURL:   func(r ClinicalRecord) string { return base + "?modal=edit&id=" + url.QueryEscape(r.ID) },
			DeleteURL: func(r ClinicalRecord) string { return base + "?confirm_delete=" + url.QueryEscape(r.ID) },
		},
		NewForm:  NewForm,
		Fields:   Fields,
		Validate: Validate,
		Input:    InputFrom,
		Scope:    []string{"patient"},
		Nav:      nav,
		Stats:    stats,
	}}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	h.screen.RegisterRoutes(g)
}

func columns() []table.Column[ClinicalRecord] {
	return []table.Column[ClinicalRecord]{
		{Key: "id", Label: "ID", Value: func(r ClinicalRecord) any { return r.ID }},
		{Key: "patientId", Label: "Paciente ID", Value: func(r ClinicalRecord) any { return r.PatientID }},
		{Key: "tumorTypeId", Label: "Tipo de Tumor ID", Value: func(r ClinicalRecord) any { return r.TumorTypeID }},
		{Key: "diagnosisDate", Label: "Fecha de Diagnóstico", Value: func(r ClinicalRecord) any { return table.FormatDate(r.DiagnosisDate) }},
		{Key: "stage", Label: "Estado", Render: func(r ClinicalRecord) template.HTML {
			return template.HTML(`<span class="badge badge-info">` + template.HTMLEscapeString(table.Stringify(r.Stage)) + `</span>`)
		}},
		{Key: "treatmentProtocol", Label: "Protocolo de Tratamiento", Render: func(r ClinicalRecord) template.HTML {
			text := template.HTMLEscapeString(table.Stringify(r.TreatmentProtocol))
			return template.HTML(`<span class="truncate" title="` + text + `">` + text + `</span>`)
		}},
	}
}

// NewForm seeds the record form from r; a new record defaults its
// diagnosis date to today.
func NewForm(r *ClinicalRecord) *form.Form[Field] {
	if r == nil {
		return form.New(map[Field]string{
			FieldPatientID:         "",
			FieldTumorTypeID:       "0",
			FieldDiagnosisDate:     now().Format("2006-01-02"),
			FieldStage:             "",
			FieldTreatmentProtocol: "",
		})
	}
	return form.New(map[Field]string{
		FieldPatientID:         r.PatientID,
		FieldTumorTypeID:       strconv.Itoa(r.TumorTypeID),
		FieldDiagnosisDate:     form.DateInput(r.DiagnosisDate),
		FieldStage:             r.Stage,
		FieldTreatmentProtocol: r.TreatmentProtocol,
	})
}

func Fields(f *form.Form[Field]) []web.FieldView {
	stages := make([]web.Option, len(Stages))
	for i, s := range Stages {
		stages[i] = web.Option{Value: s, Label: "Estado " + s}
	}

	fields := []web.FieldView{
		{Name: string(FieldPatientID), Label: "ID del Paciente", Type: "text", Required: true, Placeholder: "Ingrese el ID del paciente"},
		{Name: string(FieldTumorTypeID), Label: "Tipo de Tumor", Type: "number", Required: true, Placeholder: "ID del tipo de tumor"},
		{Name: string(FieldDiagnosisDate), Label: "Fecha de Diagnóstico", Type: "date", Required: true},
		{Name: string(FieldStage), Label: "Estado", Type: "select", Required: true, Placeholder: "Seleccione un estado", Options: stages},
		{Name: string(FieldTreatmentProtocol), Label: "Protocolo de Tratamiento", Type: "textarea", Required: true, Placeholder: "Describa el protocolo de tratamiento"},
	}
	for i := range fields {
		name := Field(fields[i].Name)
		fields[i].Value = f.Value(name)
		fields[i].Error = f.Error(name)
	}
	return fields
}
