package dto

import "time"

type UpdateHospitalRequest struct {
	Name     string   `json:"name" validate:"required,max=255"`
	Address  string   `json:"address"`
	Phone    string   `json:"phone"`
	Services []string `json:"services" validate:"omitempty,dive,required"`
}

type HospitalResponse struct {
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Services  []string  `json:"services"`
	UpdatedAt time.Time `json:"updated_at"`
}
