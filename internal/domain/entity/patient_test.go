package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPatient_Location(t *testing.T) {
	p := Patient{Ward: "UTI", Bed: "3", StoredLocation: "Corredor"}
	assert.Equal(t, "UTI - Leito 3", p.Location())

	p.Bed = ""
	assert.Equal(t, "Corredor", p.Location())
}

func TestPatient_DaysOfHospitalization(t *testing.T) {
	admitted := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	p := Patient{AdmissionDate: &admitted}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"same instant", admitted, 0},
		{"one hour later", admitted.Add(time.Hour), 1},
		{"exactly one day", admitted.Add(24 * time.Hour), 1},
		{"one day and a minute", admitted.Add(24*time.Hour + time.Minute), 2},
		{"before admission", admitted.Add(-time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.DaysOfHospitalization(tt.now))
		})
	}

	assert.Equal(t, 0, (&Patient{}).DaysOfHospitalization(admitted))
}

func TestPatient_Discharge(t *testing.T) {
	p := Patient{Status: PatientStatusActive, EligibleForDischarge: true, Password: "hash", AccessCode: "hash"}
	p.Discharge()

	assert.False(t, p.IsActive())
	assert.Equal(t, PatientStatusInactive, p.Status)
	assert.False(t, p.EligibleForDischarge)

	safe := p.WithoutCredentials()
	assert.Empty(t, safe.Password)
	assert.Empty(t, safe.AccessCode)
	assert.Equal(t, "hash", p.Password)
}
