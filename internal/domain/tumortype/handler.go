package tumortype

import (
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ReyXerxezz/genosentinel/internal/platform/crud"
	"github.com/ReyXerxezz/genosentinel/internal/platform/form"
	"github.com/ReyXerxezz/genosentinel/internal/platform/table"
	"github.com/ReyXerxezz/genosentinel/internal/platform/web"
)

var Messages = crud.Messages{
	LoadFailed:    "Error al cargar tipos de tumor",
	SaveFailed:    "Error al guardar el tipo de tumor",
	DeleteFailed:  "Error al eliminar el tipo de tumor",
	ConfirmDelete: "¿Estás seguro de eliminar este tipo de tumor?",
}

type Handler struct {
	screen *web.Screen[TumorType, Input, Field]
}

func NewHandler(svc *Service, logger zerolog.Logger, prefix string, nav []web.NavItem, stats web.StatsSource) *Handler {
	base := prefix + "/tumor-types"
	id := TumorType.Key

	return &Handler{screen: &web.Screen[TumorType, Input, Field]{
		Prefix:      prefix,
		Path:        "/tumor-types",
		Title:       "Tipos de Tumor",
		Heading:     "Tipos de Tumor",
		TotalLabel:  "Total de tipos",
		NewLabel:    "Nuevo Tipo de Tumor",
		CreateTitle: "Nuevo Tipo de Tumor",
		EditTitle:   "Editar Tipo de Tumor",
		NewModule: func(echo.Context) *crud.Module[TumorType, Input] {
			return crud.New[TumorType, Input]("tumor-types", svc, id, Messages, logger)
		},
		Table: &table.Table[TumorType]{
			Columns: []table.Column[TumorType]{
				{Key: "id", Label: "ID", Value: func(t TumorType) any { return t.ID }},
				{Key: "name", Label: "Nombre", Value: func(t TumorType) any { return t.Name }},
				{Key: "systemAffected", Label: "Sistema Afectado", Value: func(t TumorType) any { return t.SystemAffected }},
			},
			RowID:     id,
			EditURL:   func(t TumorType) string { return base + "?modal=edit&id=" + url.QueryEscape(t.Key()) },
			DeleteURL: func(t TumorType) string { return base + "?confirm_delete=" + url.QueryEscape(t.Key()) },
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

func NewForm(t *TumorType) *form.Form[Field] {
	values := map[Field]string{FieldName: "", FieldSystemAffected: ""}
	if t != nil {
		values[FieldName] = t.Name
		values[FieldSystemAffected] = t.SystemAffected
	}
	return form.New(values)
}

func Fields(f *form.Form[Field]) []web.FieldView {
	systems := make([]web.Option, len(Systems))
	for i, s := range Systems {
		systems[i] = web.Option{Value: s.Value, Label: s.Label}
	}
	return []web.FieldView{
		{
			Name: string(FieldName), Label: "Nombre del Tipo de Tumor", Type: "text", Required: true,
			Placeholder: "Ej: Carcinoma ductal infiltrante", Help: "Nombre específico del tipo de tumor",
			Value: f.Value(FieldName), Error: f.Error(FieldName),
		},
		{
			Name: string(FieldSystemAffected), Label: "Sistema Afectado", Type: "select", Required: true,
			Placeholder: "Seleccionar sistema...", Options: systems, Help: "Sistema u órgano principal afectado por el tumor",
			Value: f.Value(FieldSystemAffected), Error: f.Error(FieldSystemAffected),
		},
	}
}
