package usecase

import (
	"context"
	"testing"

	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHospitalUsecase_Profile(t *testing.T) {
	store := newFlakyStore()
	u := NewHospitalUsecase(testLogger(), store)
	ctx := context.Background()

	empty, err := u.GetProfile(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Name)
	assert.NotNil(t, empty.Services)

	updated, err := u.UpdateProfile(ctx, &dto.UpdateHospitalRequest{
		Name:     " Hospital Central ",
		Phone:    "11 4000-0000",
		Services: []string{"Clínica Médica", " ", "UTI"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hospital Central", updated.Name)
	assert.Equal(t, []string{"Clínica Médica", "UTI"}, updated.Services)

	profile, err := u.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hospital Central", profile.Name)
	assert.Equal(t, []string{"Clínica Médica", "UTI"}, profile.Services)

	store.setFailWrites(entity.CollectionHospital, true)
	_, err = u.UpdateProfile(ctx, &dto.UpdateHospitalRequest{Name: "Outro"})
	assert.ErrorIs(t, err, errStoreDown)
}
