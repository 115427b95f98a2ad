package service

import (
	"go-hospital-internment/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes ward occupancy and workflow counters.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	wardTotalBeds    *prometheus.GaugeVec
	wardOccupiedBeds *prometheus.GaugeVec
	admissions       prometheus.Counter
	discharges       prometheus.Counter
	referrals        *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		wardTotalBeds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hospital",
			Name:      "ward_total_beds",
			Help:      "Number of beds per ward.",
		}, []string{"ward", "service"}),
		wardOccupiedBeds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hospital",
			Name:      "ward_occupied_beds",
			Help:      "Number of occupied beds per ward.",
		}, []string{"ward", "service"}),
		admissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hospital",
			Name:      "admissions_total",
			Help:      "Patients admitted since start.",
		}),
		discharges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hospital",
			Name:      "discharges_total",
			Help:      "Patients discharged since start.",
		}),
		referrals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hospital",
			Name:      "referrals_total",
			Help:      "Service transfer requests by outcome.",
		}, []string{"status"}),
	}

	reg.MustRegister(m.wardTotalBeds, m.wardOccupiedBeds, m.admissions, m.discharges, m.referrals)
	return m
}

// ObserveWards replaces the occupancy gauges with the given wards
func (m *Metrics) ObserveWards(wards []entity.Ward) {
	if m == nil {
		return
	}
	m.wardTotalBeds.Reset()
	m.wardOccupiedBeds.Reset()
	for _, w := range wards {
		m.wardTotalBeds.WithLabelValues(w.Name, w.Service).Set(float64(w.TotalBeds))
		m.wardOccupiedBeds.WithLabelValues(w.Name, w.Service).Set(float64(w.OccupiedBeds))
	}
}

func (m *Metrics) IncAdmissions() {
	if m == nil {
		return
	}
	m.admissions.Inc()
}

func (m *Metrics) IncDischarges() {
	if m == nil {
		return
	}
	m.discharges.Inc()
}

func (m *Metrics) IncReferrals(status entity.ValidationStatus) {
	if m == nil {
		return
	}
	m.referrals.WithLabelValues(string(status)).Inc()
}
