package tumortype

import (
	"strconv"
	"strings"
)

// System is one entry of the "system affected" select: the value sent to
// the backend and the label shown.
type System struct {
	Value string
	Label string
}

var Systems = []System{
	{"Mama", "Mama"},
	{"Pulmón", "Pulmón"},
	{"Colon", "Colon"},
	{"Próstata", "Próstata"},
	{"Estómago", "Estómago"},
	{"Hígado", "Hígado"},
	{"Páncreas", "Páncreas"},
	{"Cerebro", "Cerebro"},
	{"Piel", "Piel"},
	{"Riñón", "Riñón"},
	{"Vejiga", "Vejiga"},
	{"Tiroides", "Tiroides"},
	{"Sangre", "Sangre (Leucemia/Linfoma)"},
	{"Huesos", "Huesos"},
	{"Sistema nervioso central", "Sistema Nervioso Central"},
	{"Tracto gastrointestinal", "Tracto Gastrointestinal"},
	{"Sistema reproductivo", "Sistema Reproductivo"},
	{"Otros", "Otros"},
}

type TumorType struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	SystemAffected string `json:"systemAffected"`
}

// Key is the string form of the id used in URLs and forms.
func (t TumorType) Key() string {
	return strconv.Itoa(t.ID)
}

type CreateDTO struct {
	Name           string `json:"name"`
	SystemAffected string `json:"systemAffected"`
}

type UpdateDTO struct {
	Name           *string `json:"name,omitempty"`
	SystemAffected *string `json:"systemAffected,omitempty"`
}

type Field string

const (
	FieldName           Field = "name"
	FieldSystemAffected Field = "systemAffected"
)

type Input struct {
	Name           string
	SystemAffected string
}

func (in Input) CreateDTO() CreateDTO {
	return CreateDTO(in)
}

func (in Input) UpdateDTO() UpdateDTO {
	return UpdateDTO{Name: &in.Name, SystemAffected: &in.SystemAffected}
}

func Validate(v map[Field]string) map[Field]string {
	errs := make(map[Field]string)
	if strings.TrimSpace(v[FieldName]) == "" {
		errs[FieldName] = "El nombre es requerido"
	}
	if strings.TrimSpace(v[FieldSystemAffected]) == "" {
		errs[FieldSystemAffected] = "El sistema afectado es requerido"
	}
	return errs
}

func InputFrom(v map[Field]string) Input {
	return Input{
		Name:           strings.TrimSpace(v[FieldName]),
		SystemAffected: strings.TrimSpace(v[FieldSystemAffected]),
	}
}
