package entity

import "time"

// HospitalProfile is the singleton hospital/data document
type HospitalProfile struct {
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Services  []string  `json:"services"`
	UpdatedAt time.Time `json:"updatedAt"`
}
