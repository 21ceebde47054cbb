package patient

import (
	"strings"
)

type Gender string

const (
	GenderMale        Gender = "MASCULINO"
	GenderFemale      Gender = "FEMENINO"
	GenderOther       Gender = "OTRO"
	GenderUnspecified Gender = "NO_ESPECIFICADO"
)

// Genders lists the accepted genders in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther, GenderUnspecified}

var genderLabels = map[Gender]string{
	GenderMale:        "Masculino",
	GenderFemale:      "Femenino",
	GenderOther:       "Otro",
	GenderUnspecified: "No especificado",
}

func (g Gender) Valid() bool {
	_, ok := genderLabels[g]
	return ok
}

// Label returns the display name, or the raw value when unknown.
func (g Gender) Label() string {
	if l, ok := genderLabels[g]; ok {
		return l
	}
	return string(g)
}

type Status string

const (
	StatusActive   Status = "Activo"
	StatusFollowUp Status = "Seguimiento"
	StatusInactive Status = "Inactivo"
)

var Statuses = []Status{StatusActive, StatusFollowUp, StatusInactive}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusFollowUp, StatusInactive:
		return true
	}
	return false
}

// Patient is a record of /clinica/patients.
type Patient struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate"`
	Gender    Gender `json:"gender"`
	Status    Status `json:"status"`
}

func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// CreateDTO is the body of a create call. Status is assigned by the server.
type CreateDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate"`
	Gender    Gender `json:"gender"`
}

// UpdateDTO is a partial update; nil fields are left unchanged.
type UpdateDTO struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
	Gender    *Gender `json:"gender,omitempty"`
	Status    *Status `json:"status,omitempty"`
}

// Field names the inputs of the patient form.
type Field string

const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldBirthDate Field = "birthDate"
	FieldGender    Field = "gender"
	FieldStatus    Field = "status"
)

// Input is the validated content of the patient form.
type Input struct {
	FirstName string
	LastName  string
	BirthDate string
	Gender    Gender
	// Status is only sent on update; empty keeps the current one.
	Status Status
}

func (in Input) CreateDTO() CreateDTO {
	return CreateDTO{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		BirthDate: in.BirthDate,
		Gender:    in.Gender,
	}
}

func (in Input) UpdateDTO() UpdateDTO {
	dto := UpdateDTO{
		FirstName: &in.FirstName,
		LastName:  &in.LastName,
		BirthDate: &in.BirthDate,
	}
	if in.Gender != "" {
		dto.Gender = &in.Gender
	}
	if in.Status != "" {
		dto.Status = &in.Status
	}
	return dto
}

// Validate checks the form values and returns one message per bad field.
func Validate(v map[Field]string) map[Field]string {
	errs := make(map[Field]string)
	if strings.TrimSpace(v[FieldFirstName]) == "" {
		errs[FieldFirstName] = "El nombre es requerido"
	}
	if strings.TrimSpace(v[FieldLastName]) == "" {
		errs[FieldLastName] = "El apellido es requerido"
	}
	if strings.TrimSpace(v[FieldBirthDate]) == "" {
		errs[FieldBirthDate] = "La fecha de nacimiento es requerida"
	}
	if !Gender(v[FieldGender]).Valid() {
		errs[FieldGender] = "Seleccione un género válido"
	}
	if s, ok := v[FieldStatus]; ok && s != "" && !Status(s).Valid() {
		errs[FieldStatus] = "Seleccione un estado válido"
	}
	return errs
}

// InputFrom converts validated form values.
func InputFrom(v map[Field]string) Input {
	return Input{
		FirstName: strings.TrimSpace(v[FieldFirstName]),
		LastName:  strings.TrimSpace(v[FieldLastName]),
		BirthDate: strings.TrimSpace(v[FieldBirthDate]),
		Gender:    Gender(v[FieldGender]),
		Status:    Status(v[FieldStatus]),
	}
}
