package usecase

import (
	"context"
	"regexp"
	"testing"

	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	domainRepo "go-hospital-internment/internal/domain/repository"
	"go-hospital-internment/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func admit(t *testing.T, h *hospital, name, ward, bed string) *AdmissionResult {
	t.Helper()
	result, err := h.patients.AdmitPatient(context.Background(), &dto.AdmitPatientRequest{
		Name:    name,
		Email:   "paciente@example.com",
		Service: "Clínica Médica",
		Ward:    ward,
		Bed:     bed,
	})
	require.NoError(t, err)
	return result
}

func TestPatientUsecase_AdmitPatient(t *testing.T) {
	h := newHospital(t, oneWard("A", 2))
	ctx := context.Background()

	result := admit(t, h, "Maria Silva", "A", "1")
	patient := result.Patient

	assert.Equal(t, entity.PatientStatusActive, patient.Status)
	assert.Equal(t, "000001", patient.UserNumber)
	assert.True(t, patient.ValidationPending)
	assert.NotNil(t, patient.AdmissionDate)
	assert.Equal(t, "A - Leito 1", patient.Location())
	assert.Empty(t, patient.Password)
	assert.Empty(t, patient.AccessCode)

	assert.Len(t, result.Credentials.Password, service.PasswordLength)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), result.Credentials.AccessCode)
	assert.Equal(t, result.Credentials, h.notifier.delivered[patient.ID])

	// the stored document only holds hashes
	doc, err := h.store.Get(ctx, entity.CollectionPatients, patient.ID)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.NotEqual(t, result.Credentials.Password, doc.Fields["password"])
	assert.NotEqual(t, result.Credentials.AccessCode, doc.Fields["accessCode"])
	assert.Equal(t, "ativo", doc.Fields["status"])

	ward, err := h.wards.GetWard(ctx, "ward-A")
	require.NoError(t, err)
	require.NotNil(t, ward.Beds[0].PatientID)
	assert.Equal(t, patient.ID, *ward.Beds[0].PatientID)

	second := admit(t, h, "João Souza", "", "")
	assert.Equal(t, "000002", second.Patient.UserNumber)
}

func TestPatientUsecase_AdmitPatientValidation(t *testing.T) {
	h := newHospital(t, oneWard("A", 1))
	ctx := context.Background()

	_, err := h.patients.AdmitPatient(ctx, &dto.AdmitPatientRequest{Name: " ", Email: "a@b.c", Service: "X"})
	assert.ErrorIs(t, err, ErrInvalidPatientData)

	_, err = h.patients.AdmitPatient(ctx, &dto.AdmitPatientRequest{Name: "Ana", Email: "a@b.c", Service: "X", Ward: "A"})
	assert.ErrorIs(t, err, ErrIncompletePlacement)

	admit(t, h, "Ana", "A", "1")
	_, err = h.patients.AdmitPatient(ctx, &dto.AdmitPatientRequest{Name: "Bia", Email: "b@b.c", Service: "X", Ward: "A", Bed: "1"})
	assert.ErrorIs(t, err, ErrBedAlreadyOccupied)
	assert.Len(t, h.patients.GetAllPatients(ctx), 1)
}

func TestPatientUsecase_FailedAdmissionReleasesBed(t *testing.T) {
	h := newHospital(t, oneWard("A", 1))
	ctx := context.Background()

	h.store.setFailWrites(entity.CollectionPatients, true)
	_, err := h.patients.AdmitPatient(ctx, &dto.AdmitPatientRequest{
		Name: "Ana", Email: "a@b.c", Service: "X", Ward: "A", Bed: "1",
	})
	assert.ErrorIs(t, err, errStoreDown)

	assert.Empty(t, h.patients.GetAllPatients(ctx))
	beds, err := h.wards.ListAvailableBeds(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, beds)
}

func TestPatientUsecase_VerifyAccessCode(t *testing.T) {
	h := newHospital(t, nil)
	ctx := context.Background()

	result := admit(t, h, "Ana", "", "")

	ok, err := h.patients.VerifyAccessCode(ctx, result.Patient.ID, result.Credentials.AccessCode)
	require.NoError(t, err)
	assert.True(t, ok)

	wrong := "000000"
	if result.Credentials.AccessCode == wrong {
		wrong = "111111"
	}
	ok, err = h.patients.VerifyAccessCode(ctx, result.Patient.ID, wrong)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.patients.VerifyAccessCode(ctx, "missing", "123456")
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestPatientUsecase_UpdatePatientMovesBed(t *testing.T) {
	h := newHospital(t, oneWard("A", 2))
	ctx := context.Background()

	patient := admit(t, h, "Ana", "A", "1").Patient

	updated, err := h.patients.UpdatePatient(ctx, patient.ID, &dto.UpdatePatientRequest{
		Bed:       strPtr("2"),
		Diagnosis: strPtr(" Pneumonia "),
	})
	require.NoError(t, err)
	assert.Equal(t, "2", updated.Bed)
	assert.Equal(t, "Pneumonia", updated.Diagnosis)

	beds, err := h.wards.ListAvailableBeds(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, beds)

	_, err = h.patients.UpdatePatient(ctx, patient.ID, &dto.UpdatePatientRequest{Ward: strPtr("")})
	assert.ErrorIs(t, err, ErrIncompletePlacement)

	_, err = h.patients.UpdatePatient(ctx, "missing", &dto.UpdatePatientRequest{Name: strPtr("X")})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestPatientUsecase_SearchFilterAndDashboard(t *testing.T) {
	h := newHospital(t, nil)
	ctx := context.Background()

	ana := admit(t, h, "Ana Lima", "", "").Patient
	admit(t, h, "Bruno Costa", "", "")
	_, err := h.patients.AdmitPatient(ctx, &dto.AdmitPatientRequest{
		Name: "Carla Dias", Email: "c@d.e", Service: "Cardiologia", ValidationPending: boolPtr(false),
	})
	require.NoError(t, err)

	all := h.patients.GetAllPatients(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Ana Lima", "Bruno Costa", "Carla Dias"}, []string{all[0].Name, all[1].Name, all[2].Name})

	assert.Len(t, h.patients.SearchPatients(ctx, "ana"), 1)
	assert.Len(t, h.patients.SearchPatients(ctx, ana.UserNumber), 1)
	assert.Len(t, h.patients.SearchPatients(ctx, ""), 3)

	assert.Len(t, h.patients.FilterByService(ctx, "Cardiologia"), 1)
	assert.Len(t, h.patients.FilterByService(ctx, entity.FilterAll), 3)

	_, err = h.patients.ApplyDischarge(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, h.patients.FilterByStatus(ctx, "ativo"), 2)
	assert.Len(t, h.patients.FilterByStatus(ctx, "inativo"), 1)
	assert.Len(t, h.patients.FilterByStatus(ctx, ""), 3)

	require.NoError(t, h.patients.SetDischargeEligibility(ctx, all[1].ID, true))

	stats := h.patients.GetDashboardStats(ctx)
	assert.Equal(t, 2, stats.ActivePatientsCount)
	assert.Equal(t, 3, stats.TotalInternments)
	assert.Equal(t, 2, stats.PendingValidationCount)
	assert.Equal(t, 1, stats.EligibleForDischargeCount)
}

func TestPatientUsecase_ApplyDischargeKeepsLocalChange(t *testing.T) {
	h := newHospital(t, oneWard("A", 1))
	ctx := context.Background()

	patient := admit(t, h, "Ana", "A", "1").Patient

	h.store.setFailWrites(entity.CollectionPatients, true)
	discharged, err := h.patients.ApplyDischarge(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PatientStatusInactive, discharged.Status)

	state, ok := h.patients.GetPatientSyncState(ctx, patient.ID)
	require.True(t, ok)
	assert.Equal(t, entity.SyncStateLocalOnly, state)

	beds, err := h.wards.ListAvailableBeds(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, beds)
}

func TestPatientUsecase_GetAllPatientsCollapsesDuplicateRows(t *testing.T) {
	h := newHospital(t, nil)
	ctx := context.Background()

	h.patients.sync.apply([]domainRepo.Document{
		{ID: "p1", Fields: entity.JSON{"name": "Ana", "status": "ativo", "password": "hash", "updatedAt": "2024-03-01T10:00:00Z"}},
		{ID: "p1", Fields: entity.JSON{"name": "Ana Lima", "status": "ativo", "password": "hash", "updatedAt": "2024-03-02T10:00:00Z"}},
		{ID: "p2", Fields: entity.JSON{"name": "Bruno", "status": "ativo", "updatedAt": "2024-03-01T10:00:00Z"}},
	})

	all := h.patients.GetAllPatients(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, "Ana Lima", all[0].Name)
	assert.Empty(t, all[0].Password)
	assert.Equal(t, "Bruno", all[1].Name)
}
