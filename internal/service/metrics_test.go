package service

import (
	"testing"

	"go-hospital-internment/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherValues(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, family := range families {
		for _, m := range family.GetMetric() {
			key := family.GetName()
			for _, label := range m.GetLabel() {
				key += "|" + label.GetValue()
			}
			switch {
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			}
		}
	}
	return values
}

func TestMetrics_RecordsOccupancyAndWorkflow(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ward, err := entity.NewWard("Enfermaria A", "Clínica Médica", 4)
	require.NoError(t, err)
	require.NoError(t, ward.Occupy("1", "p1"))

	m.ObserveWards([]entity.Ward{ward})
	m.IncAdmissions()
	m.IncAdmissions()
	m.IncDischarges()
	m.IncReferrals(entity.ValidationStatusApproved)

	values := gatherValues(t, reg)
	assert.Equal(t, 4.0, values["hospital_ward_total_beds|Clínica Médica|Enfermaria A"])
	assert.Equal(t, 1.0, values["hospital_ward_occupied_beds|Clínica Médica|Enfermaria A"])
	assert.Equal(t, 2.0, values["hospital_admissions_total"])
	assert.Equal(t, 1.0, values["hospital_discharges_total"])
	assert.Equal(t, 1.0, values["hospital_referrals_total|aprovada"])

	// wards that disappear are no longer reported
	m.ObserveWards(nil)
	values = gatherValues(t, reg)
	_, ok := values["hospital_ward_total_beds|Clínica Médica|Enfermaria A"]
	assert.False(t, ok)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveWards([]entity.Ward{{Name: "A"}})
		m.IncAdmissions()
		m.IncDischarges()
		m.IncReferrals(entity.ValidationStatusRejected)
	})
}
