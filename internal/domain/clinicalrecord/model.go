package clinicalrecord

import (
	"strconv"
	"strings"
)

// Stages offered by the record form.
var Stages = []string{"I", "II", "III", "IV"}

// ClinicalRecord is a record of /clinica/clinical-records.
type ClinicalRecord struct {
	ID                string `json:"id"`
	PatientID         string `json:"patientId"`
	TumorTypeID       int    `json:"tumorTypeId"`
	DiagnosisDate     string `json:"diagnosisDate"`
	Stage             string `json:"stage"`
	TreatmentProtocol string `json:"treatmentProtocol"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

type CreateDTO struct {
	PatientID         string `json:"patientId"`
	TumorTypeID       int    `json:"tumorTypeId"`
	DiagnosisDate     string `json:"diagnosisDate"`
	Stage             string `json:"stage"`
	TreatmentProtocol string `json:"treatmentProtocol"`
}

// UpdateDTO is a partial update; nil fields are left unchanged.
type UpdateDTO struct {
	PatientID         *string `json:"patientId,omitempty"`
	TumorTypeID       *int    `json:"tumorTypeId,omitempty"`
	DiagnosisDate     *string `json:"diagnosisDate,omitempty"`
	Stage             *string `json:"stage,omitempty"`
	TreatmentProtocol *string `json:"treatmentProtocol,omitempty"`
}

type Field string

const (
	FieldPatientID         Field = "patientId"
	FieldTumorTypeID       Field = "tumorTypeId"
	FieldDiagnosisDate     Field = "diagnosisDate"
	FieldStage             Field = "stage"
	FieldTreatmentProtocol Field = "treatmentProtocol"
)

type Input struct {
	PatientID         string
	TumorTypeID       int
	DiagnosisDate     string
	Stage             string
	TreatmentProtocol string
}

func (in Input) CreateDTO() CreateDTO {
	return CreateDTO(in)
}

func (in Input) UpdateDTO() UpdateDTO {
	return UpdateDTO{
		PatientID:         &in.PatientID,
		TumorTypeID:       &in.TumorTypeID,
		DiagnosisDate:     &in.DiagnosisDate,
		Stage:             &in.Stage,
		TreatmentProtocol: &in.TreatmentProtocol,
	}
}

// Validate applies the record form's rules. A tumor type that is not a
// positive integer counts as not selected.
func Validate(v map[Field]string) map[Field]string {
	errs := make(map[Field]string)
	if strings.TrimSpace(v[FieldPatientID]) == "" {
		errs[FieldPatientID] = "El ID del paciente es requerido"
	}
	if tumorTypeID(v[FieldTumorTypeID]) == 0 {
		errs[FieldTumorTypeID] = "Debe seleccionar un tipo de tumor"
	}
	if strings.TrimSpace(v[FieldDiagnosisDate]) == "" {
		errs[FieldDiagnosisDate] = "La fecha de diagnóstico es requerida"
	}
	if strings.TrimSpace(v[FieldStage]) == "" {
		errs[FieldStage] = "El estado es requerido"
	}
	if strings.TrimSpace(v[FieldTreatmentProtocol]) == "" {
		errs[FieldTreatmentProtocol] = "El protocolo de tratamiento es requerido"
	}
	return errs
}

func tumorTypeID(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func InputFrom(v map[Field]string) Input {
	return Input{
		PatientID:         strings.TrimSpace(v[FieldPatientID]),
		TumorTypeID:       tumorTypeID(v[FieldTumorTypeID]),
		DiagnosisDate:     strings.TrimSpace(v[FieldDiagnosisDate]),
		Stage:             strings.TrimSpace(v[FieldStage]),
		TreatmentProtocol: strings.TrimSpace(v[FieldTreatmentProtocol]),
	}
}
