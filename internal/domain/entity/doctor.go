package entity

import "time"

// Doctor represents a physician of the hospital staff
type Doctor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CRM       string    `json:"crm"`
	Specialty string    `json:"specialty"`
	Email     string    `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d Doctor) RecordID() string      { return d.ID }
func (d Doctor) ModifiedAt() time.Time { return d.UpdatedAt }
