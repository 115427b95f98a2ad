package usecase

import (
	"context"
	"testing"

	"go-hospital-internment/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogUsecase_TrailsPatientChanges(t *testing.T) {
	h := newHospital(t, oneWard("A", 1))
	ctx := context.Background()
	u := NewAuditLogUsecase(testLogger(), h.store)

	patient := admit(t, h, "Ana", "A", "1").Patient
	_, err := h.patients.ApplyDischarge(ctx, patient.ID)
	require.NoError(t, err)

	logs, err := u.GetAllAuditLogs(ctx, entity.CollectionPatients)
	require.NoError(t, err)
	require.Equal(t, 2, logs.Total)
	assert.Equal(t, entity.AuditActionPatientDischarge, logs.Logs[0].Action)
	assert.Equal(t, entity.AuditActionPatientAdmit, logs.Logs[1].Action)

	admission, ok := logs.Logs[1].NewValue.(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, admission, "password")
	assert.NotContains(t, admission, "accessCode")

	one, err := u.GetAuditLog(ctx, logs.Logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, one.EntityID)

	_, err = u.GetAuditLog(ctx, "missing")
	assert.ErrorIs(t, err, ErrAuditLogNotFound)

	h.store.setFailReads(true)
	_, err = u.GetAllAuditLogs(ctx, "")
	assert.ErrorIs(t, err, errStoreDown)
}
