package dto

import "time"

// Request DTOs

type CreateWardRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Service  string `json:"service" validate:"required,max=100"`
	BedCount int    `json:"bed_count" validate:"required,min=1,max=500"`
}

type ResizeWardRequest struct {
	BedCount int `json:"bed_count" validate:"required,min=1,max=500"`
}

type UpdateWardStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ativa inativa"`
}

type OccupyBedRequest struct {
	PatientID string `json:"patient_id" validate:"required"`
}

// Response DTOs

type BedResponse struct {
	Number    string  `json:"number"`
	Occupied  bool    `json:"occupied"`
	PatientID *string `json:"patient_id"`
}

type WardResponse struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Service       string        `json:"service"`
	Status        string        `json:"status"`
	TotalBeds     int           `json:"total_beds"`
	OccupiedBeds  int           `json:"occupied_beds"`
	AvailableBeds int           `json:"available_beds"`
	Beds          []BedResponse `json:"beds"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type WardListResponse struct {
	Wards []WardResponse `json:"wards"`
	Total int            `json:"total"`
}

type AvailableWardResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Service       string `json:"service"`
	TotalBeds     int    `json:"total_beds"`
	OccupiedBeds  int    `json:"occupied_beds"`
	AvailableBeds int    `json:"available_beds"`
}

type AvailableBedsResponse struct {
	Ward string   `json:"ward"`
	Beds []string `json:"beds"`
}
