package converter

import (
	"testing"
	"time"

	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFieldsAndBack(t *testing.T) {
	admitted := time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)
	patient := entity.Patient{
		ID:            "p1",
		Name:          "Ana",
		Service:       "Cardiologia",
		Status:        entity.PatientStatusActive,
		AdmissionDate: &admitted,
		UpdatedAt:     admitted,
	}

	fields, err := ToFields(patient)
	require.NoError(t, err)
	assert.NotContains(t, fields, "id")
	assert.NotContains(t, fields, "password")
	assert.Equal(t, "ativo", fields["status"])

	decoded, err := FromDocument[entity.Patient](repository.Document{ID: "stored-id", Fields: fields})
	require.NoError(t, err)
	assert.Equal(t, "stored-id", decoded.ID)
	assert.Equal(t, "Cardiologia", decoded.Service)
	require.NotNil(t, decoded.AdmissionDate)
	assert.True(t, admitted.Equal(*decoded.AdmissionDate))
}

func TestFromDocuments_SkipsMalformed(t *testing.T) {
	docs := []repository.Document{
		{ID: "a", Fields: entity.JSON{"patientMessage": "Oi", "status": "pendente"}},
		{ID: "b", Fields: entity.JSON{"date": "yesterday"}},
		{ID: "c", Fields: entity.JSON{"patientMessage": "Tudo bem?"}},
	}

	var failures []error
	messages := FromDocuments[entity.Message](docs, func(err error) { failures = append(failures, err) })

	require.Len(t, messages, 2)
	assert.Equal(t, "a", messages[0].ID)
	assert.Equal(t, "c", messages[1].ID)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Error(), "decode document b")

	assert.Len(t, FromDocuments[entity.Message](docs, nil), 2)
}

func TestPatientToResponse_DerivesLocationAndStay(t *testing.T) {
	admitted := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	patient := &entity.Patient{
		ID:            "p1",
		Ward:          "UTI",
		Bed:           "3",
		Status:        entity.PatientStatusActive,
		AdmissionDate: &admitted,
		Password:      "hash",
	}

	resp := PatientToResponse(patient, admitted.Add(49*time.Hour))
	assert.Equal(t, "UTI - Leito 3", resp.Location)
	assert.Equal(t, 3, resp.DaysOfHospitalization)
	assert.Equal(t, "ativo", resp.Status)
}
