package usecase

import (
	"time"

	"go-hospital-internment/internal/domain/entity"
)

var seedTime = time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)

// DefaultWards is the built-in ward layout used until wards are stored
func DefaultWards() []entity.Ward {
	layout := []struct {
		id, name, service string
		beds              int
	}{
		{"enfermaria-a", "Enfermaria A", "Clínica Médica", 10},
		{"enfermaria-b", "Enfermaria B", "Cirurgia Geral", 8},
		{"enfermaria-c", "Enfermaria C", "Cardiologia", 6},
		{"enfermaria-d", "Enfermaria D", "Neurologia", 6},
		{"uti", "UTI", "Terapia Intensiva", 5},
	}

	wards := make([]entity.Ward, 0, len(layout))
	for i, l := range layout {
		w, _ := entity.NewWard(l.name, l.service, l.beds)
		w.ID = l.id
		w.CreatedAt = seedTime.Add(time.Duration(i) * time.Minute)
		w.UpdatedAt = w.CreatedAt
		wards = append(wards, w)
	}
	return wards
}

// DefaultDoctors is the built-in staff used until doctors are stored
func DefaultDoctors() []entity.Doctor {
	staff := []struct {
		id, name, crm, specialty string
	}{
		{"medico-1", "Dra. Ana Souza", "CRM-SP 123456", "Clínica Médica"},
		{"medico-2", "Dr. Carlos Lima", "CRM-SP 234567", "Cardiologia"},
		{"medico-3", "Dra. Beatriz Rocha", "CRM-SP 345678", "Neurologia"},
	}

	doctors := make([]entity.Doctor, 0, len(staff))
	for _, s := range staff {
		doctors = append(doctors, entity.Doctor{
			ID:        s.id,
			Name:      s.name,
			CRM:       s.crm,
			Specialty: s.specialty,
			Active:    true,
			CreatedAt: seedTime,
			UpdatedAt: seedTime,
		})
	}
	return doctors
}
