package entity

import "time"

// Collection names used by the record store
const (
	CollectionPatients    = "pacientes"
	CollectionDiaries     = "diarios"
	CollectionMessages    = "mensagens"
	CollectionDischarges  = "altas"
	CollectionDoctors     = "medicos"
	CollectionWards       = "enfermarias"
	CollectionValidations = "validacoes"
	CollectionAudit       = "auditoria"
	CollectionHospital    = "hospital"

	HospitalDocumentID = "data"
)

// SeedMarkerID names the hospital document recording that a collection got its built-in records
func SeedMarkerID(collection string) string {
	return "seed-" + collection
}

// StoreDocument is a single document of a named collection
type StoreDocument struct {
	Collection string    `gorm:"type:varchar(64);primaryKey" json:"collection"`
	ID         string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Data       JSON      `gorm:"type:jsonb;not null" json:"data"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StoreDocument) TableName() string {
	return "store_documents"
}
