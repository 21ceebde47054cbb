package patient

import (
	"html/template"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ReyXerxezz/genosentinel/internal/platform/crud"
	"github.com/ReyXerxezz/genosentinel/internal/platform/form"
	"github.com/ReyXerxezz/genosentinel/internal/platform/table"
	"github.com/ReyXerxezz/genosentinel/internal/platform/web"
)

var Messages = crud.Messages{
	LoadFailed:    "Error al cargar pacientes",
	SaveFailed:    "Error al guardar el paciente",
	DeleteFailed:  "Error al eliminar el paciente",
	ConfirmDelete: "¿Estás seguro de eliminar este paciente?",
}

type Handler struct {
	screen *web.Screen[Patient, Input, Field]
}

// NewHandler builds the patients screen mounted at prefix + "/patients".
func NewHandler(svc *Service, logger zerolog.Logger, prefix string, nav []web.NavItem, stats web.StatsSource) *Handler {
	base := prefix + "/patients"
	id := func(p Patient) string { return p.ID }

	return &Handler{screen: &web.Screen[Patient, Input, Field]{
		Prefix:      prefix,
		Path:        "/patients",
		Title:       "Pacientes",
		Heading:     "Gestión de Pacientes",
		TotalLabel:  "Total de pacientes",
		NewLabel:    "Nuevo Paciente",
		CreateTitle: "Nuevo Paciente",
		EditTitle:   "Editar Paciente",
		NewModule: func(echo.Context) *crud.Module[Patient, Input] {
			return crud.New[Patient, Input]("patients", svc, id, Messages, logger)
		},
		Table: &table.Table[Patient]{
			Columns:   columns(),
			RowID:     id,
			EditURL:   func(p Patient) string { return base + "?modal=edit&id=" + url.QueryEscape(p.ID) },
			DeleteURL: func(p Patient) string { return base + "?confirm_delete=" + url.QueryEscape(p.ID) },
		},
		NewForm:  NewForm,
		Fields:   Fields,
		Validate: Validate,
		Input:    InputFrom,
		Nav:      nav,
		Stats:    stats,
	}}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	h.screen.RegisterRoutes(g)
}

func columns() []table.Column[Patient] {
	return []table.Column[Patient]{
		{Key: "id", Label: "ID", Value: func(p Patient) any { return p.ID }},
		{Key: "firstName", Label: "Nombre", Value: func(p Patient) any { return p.FirstName }},
		{Key: "lastName", Label: "Apellido", Value: func(p Patient) any { return p.LastName }},
		{Key: "birthDate", Label: "Fecha de Nacimiento", Value: func(p Patient) any { return table.FormatDate(p.BirthDate) }},
		{Key: "gender", Label: "Género", Value: func(p Patient) any { return p.Gender.Label() }},
		{Key: "status", Label: "Estado", Render: statusBadge},
	}
}

func statusBadge(p Patient) template.HTML {
	class := "badge"
	switch p.Status {
	case StatusActive:
		class += " badge-success"
	case StatusFollowUp:
		class += " badge-warning"
	}
	return template.HTML(`<span class="` + class + `">` + template.HTMLEscapeString(table.Stringify(string(p.Status))) + `</span>`)
}

// NewForm seeds the patient form from p, or with defaults when creating.
// The status field only exists when editing.
func NewForm(p *Patient) *form.Form[Field] {
	if p == nil {
		return form.New(map[Field]string{
			FieldFirstName: "",
			FieldLastName:  "",
			FieldBirthDate: "",
			FieldGender:    string(GenderUnspecified),
		})
	}
	gender := p.Gender
	if gender == "" {
		gender = GenderUnspecified
	}
	return form.New(map[Field]string{
		FieldFirstName: p.FirstName,
		FieldLastName:  p.LastName,
		FieldBirthDate: form.DateInput(p.BirthDate),
		FieldGender:    string(gender),
		FieldStatus:    string(p.Status),
	})
}

func Fields(f *form.Form[Field]) []web.FieldView {
	genders := make([]web.Option, len(Genders))
	for i, g := range Genders {
		genders[i] = web.Option{Value: string(g), Label: g.Label()}
	}

	fields := []web.FieldView{
		{Name: string(FieldFirstName), Label: "Nombre", Type: "text", Required: true, Placeholder: "Ej: María Elena"},
		{Name: string(FieldLastName), Label: "Apellido", Type: "text", Required: true, Placeholder: "Ej: Fuentes Andrade"},
		{Name: string(FieldBirthDate), Label: "Fecha de Nacimiento", Type: "date", Required: true},
		{Name: string(FieldGender), Label: "Género", Type: "select", Required: true, Options: genders},
	}
	if _, editing := f.Values()[FieldStatus]; editing {
		statuses := make([]web.Option, len(Statuses))
		for i, s := range Statuses {
			statuses[i] = web.Option{Value: string(s), Label: string(s)}
		}
		fields = append(fields, web.FieldView{Name: string(FieldStatus), Label: "Estado", Type: "select", Options: statuses})
	}

	for i := range fields {
		name := Field(fields[i].Name)
		fields[i].Value = f.Value(name)
		fields[i].Error = f.Error(name)
	}
	return fields
}
