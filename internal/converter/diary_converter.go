package converter

import (
	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
)

// DiaryEntryFromRequest builds a DiaryEntry entity from the create request
func DiaryEntryFromRequest(req *dto.CreateDiaryEntryRequest) entity.DiaryEntry {
	medications := make([]entity.Medication, len(req.Medications))
	for i, m := range req.Medications {
		medications[i] = entity.Medication{Name: m.Name, Dosage: m.Dosage, Time: m.Time}
	}
	exams := make([]entity.Exam, len(req.Exams))
	for i, e := range req.Exams {
		exams[i] = entity.Exam{Type: e.Type, Result: e.Result, Date: e.Date}
	}

	return entity.DiaryEntry{
		PatientID: req.PatientID,
		Vitals: entity.Vitals{
			Temperature: req.Vitals.Temperature,
			HeartRate:   req.Vitals.HeartRate,
			SystolicBP:  req.Vitals.SystolicBP,
			DiastolicBP: req.Vitals.DiastolicBP,
			SpO2:        req.Vitals.SpO2,
		},
		Elimination: entity.Elimination{
			Diuresis:   req.Elimination.Diuresis,
			Evacuation: req.Elimination.Evacuation,
		},
		Diagnosis:    req.Diagnosis,
		Observations: req.Observations,
		Medications:  medications,
		Exams:        exams,
		DoctorName:   req.DoctorName,
	}
}

// DiaryEntryToResponse converts a DiaryEntry entity to DiaryEntryResponse DTO
func DiaryEntryToResponse(entry *entity.DiaryEntry, state entity.SyncState) *dto.DiaryEntryResponse {
	if entry == nil {
		return nil
	}

	medications := make([]dto.MedicationDTO, len(entry.Medications))
	for i, m := range entry.Medications {
		medications[i] = dto.MedicationDTO{Name: m.Name, Dosage: m.Dosage, Time: m.Time}
	}
	exams := make([]dto.ExamDTO, len(entry.Exams))
	for i, e := range entry.Exams {
		exams[i] = dto.ExamDTO{Type: e.Type, Result: e.Result, Date: e.Date}
	}

	return &dto.DiaryEntryResponse{
		ID:        entry.ID,
		PatientID: entry.PatientID,
		Date:      entry.Date,
		Vitals: dto.VitalsDTO{
			Temperature: entry.Vitals.Temperature,
			HeartRate:   entry.Vitals.HeartRate,
			SystolicBP:  entry.Vitals.SystolicBP,
			DiastolicBP: entry.Vitals.DiastolicBP,
			SpO2:        entry.Vitals.SpO2,
		},
		Elimination: dto.EliminationDTO{
			Diuresis:   entry.Elimination.Diuresis,
			Evacuation: entry.Elimination.Evacuation,
		},
		Diagnosis:    entry.Diagnosis,
		Observations: entry.Observations,
		Medications:  medications,
		Exams:        exams,
		DoctorName:   entry.DoctorName,
		SyncState:    string(state),
	}
}

// DiaryEntriesToResponses converts diary entries; state resolves the sync state of each one
func DiaryEntriesToResponses(entries []entity.DiaryEntry, state func(id string) entity.SyncState) []dto.DiaryEntryResponse {
	responses := make([]dto.DiaryEntryResponse, len(entries))
	for i := range entries {
		responses[i] = *DiaryEntryToResponse(&entries[i], state(entries[i].ID))
	}
	return responses
}
