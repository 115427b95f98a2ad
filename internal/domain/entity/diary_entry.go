package entity

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Medication is a single administered drug of a diary entry
type Medication struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
	Time   string `json:"time"`
}

// Exam is a single exam result of a diary entry
type Exam struct {
	Type   string `json:"type"`
	Result string `json:"result"`
	Date   string `json:"date"`
}

// Vitals are kept as entered; any of them may be blank
type Vitals struct {
	Temperature string `json:"temperature,omitempty"`
	HeartRate   string `json:"heartRate,omitempty"`
	SystolicBP  string `json:"systolicBP,omitempty"`
	DiastolicBP string `json:"diastolicBP,omitempty"`
	SpO2        string `json:"spO2,omitempty"`
}

// Elimination records diuresis and evacuation notes
type Elimination struct {
	Diuresis   string `json:"diuresis,omitempty"`
	Evacuation string `json:"evacuation,omitempty"`
}

// DiaryEntry is a clinical diary entry written by the attending physician
type DiaryEntry struct {
	ID           string       `json:"id"`
	PatientID    string       `json:"patientId"`
	Date         time.Time    `json:"date"`
	Vitals       Vitals       `json:"vitals"`
	Elimination  Elimination  `json:"elimination"`
	Diagnosis    string       `json:"diagnosis,omitempty"`
	Observations string       `json:"observations,omitempty"`
	Medications  []Medication `json:"medications,omitempty"`
	Exams        []Exam       `json:"exams,omitempty"`
	DoctorName   string       `json:"doctorName,omitempty"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func (d DiaryEntry) RecordID() string      { return d.ID }
func (d DiaryEntry) ModifiedAt() time.Time { return d.UpdatedAt }

// TemperatureValue parses the temperature, in Celsius
func (d *DiaryEntry) TemperatureValue() (float64, bool) {
	return parseMeasurement(d.Vitals.Temperature)
}

// SpO2Value parses the oxygen saturation, in percent
func (d *DiaryEntry) SpO2Value() (float64, bool) {
	return parseMeasurement(d.Vitals.SpO2)
}

// parseMeasurement accepts finite numbers with an optional unit suffix
func parseMeasurement(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSuffix(s, "°C")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
