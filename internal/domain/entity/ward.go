package entity

import (
	"errors"
	"sort"
	"strconv"
	"time"
)

// WardStatus represents whether a ward accepts new patients
type WardStatus string

const (
	WardStatusActive   WardStatus = "ativa"
	WardStatusInactive WardStatus = "inativa"
)

var (
	ErrBedNotFound        = errors.New("bed not found")
	ErrBedAlreadyOccupied = errors.New("bed is already occupied")
	ErrNotEnoughFreeBeds  = errors.New("not enough unoccupied beds to remove")
	ErrInvalidBedCount    = errors.New("bed count must be positive")
)

// Bed is a single bed of a ward
type Bed struct {
	Number    string  `json:"number"`
	Occupied  bool    `json:"occupied"`
	PatientID *string `json:"patientId"`
}

// Ward represents a physical grouping of beds tied to a clinical service
type Ward struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Service      string     `json:"service"`
	Status       WardStatus `json:"status"`
	TotalBeds    int        `json:"totalBeds"`
	OccupiedBeds int        `json:"occupiedBeds"`
	Beds         []Bed      `json:"beds"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (w Ward) RecordID() string      { return w.ID }
func (w Ward) ModifiedAt() time.Time { return w.UpdatedAt }

// NewWard builds a ward with bedCount free beds numbered from 1
func NewWard(name, service string, bedCount int) (Ward, error) {
	if bedCount <= 0 {
		return Ward{}, ErrInvalidBedCount
	}
	w := Ward{
		Name:    name,
		Service: service,
		Status:  WardStatusActive,
	}
	w.AppendBeds(bedCount)
	return w, nil
}

// Clone returns a deep copy so the bed list can be mutated safely
func (w Ward) Clone() Ward {
	beds := make([]Bed, len(w.Beds))
	for i, b := range w.Beds {
		if b.PatientID != nil {
			id := *b.PatientID
			b.PatientID = &id
		}
		beds[i] = b
	}
	w.Beds = beds
	return w
}

// IsActive checks if the ward accepts admissions
func (w *Ward) IsActive() bool {
	return w.Status == WardStatusActive || w.Status == ""
}

// AvailableBeds is the number of unoccupied beds
func (w *Ward) AvailableBeds() int {
	return w.TotalBeds - w.OccupiedBeds
}

// Recount derives the counters from the bed list
func (w *Ward) Recount() {
	occupied := 0
	for _, b := range w.Beds {
		if b.Occupied {
			occupied++
		}
	}
	w.TotalBeds = len(w.Beds)
	w.OccupiedBeds = occupied
}

// FreeBedNumbers returns unoccupied bed numbers in natural numeric order
func (w *Ward) FreeBedNumbers() []string {
	numbers := make([]string, 0, len(w.Beds))
	for _, b := range w.Beds {
		if !b.Occupied {
			numbers = append(numbers, b.Number)
		}
	}
	sort.SliceStable(numbers, func(i, j int) bool {
		return bedNumberLess(numbers[i], numbers[j])
	})
	return numbers
}

// AppendBeds adds n free beds numbered after the current highest number
func (w *Ward) AppendBeds(n int) {
	next := w.maxBedNumber() + 1
	for i := 0; i < n; i++ {
		w.Beds = append(w.Beds, Bed{Number: strconv.Itoa(next + i)})
	}
	w.Recount()
}

// RemoveFreeBeds drops n unoccupied beds, highest numbers first.
// The ward is left untouched when fewer than n beds are free.
func (w *Ward) RemoveFreeBeds(n int) error {
	free := w.FreeBedNumbers()
	if len(free) < n {
		return ErrNotEnoughFreeBeds
	}
	drop := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		drop[free[len(free)-1-i]] = true
	}
	kept := w.Beds[:0:0]
	for _, b := range w.Beds {
		if !drop[b.Number] {
			kept = append(kept, b)
		}
	}
	w.Beds = kept
	w.Recount()
	return nil
}

// Occupy assigns the bed to a patient
func (w *Ward) Occupy(bedNumber, patientID string) error {
	i := w.bedIndex(bedNumber)
	if i < 0 {
		return ErrBedNotFound
	}
	if w.Beds[i].Occupied {
		return ErrBedAlreadyOccupied
	}
	id := patientID
	w.Beds[i].Occupied = true
	w.Beds[i].PatientID = &id
	w.Recount()
	return nil
}

// Free releases the bed; it reports whether anything changed
func (w *Ward) Free(bedNumber string) (bool, error) {
	i := w.bedIndex(bedNumber)
	if i < 0 {
		return false, ErrBedNotFound
	}
	if !w.Beds[i].Occupied && w.Beds[i].PatientID == nil {
		return false, nil
	}
	w.Beds[i].Occupied = false
	w.Beds[i].PatientID = nil
	w.Recount()
	return true, nil
}

// HasOccupiedBeds checks if any bed is in use
func (w *Ward) HasOccupiedBeds() bool {
	for _, b := range w.Beds {
		if b.Occupied {
			return true
		}
	}
	return false
}

func (w *Ward) bedIndex(number string) int {
	for i, b := range w.Beds {
		if b.Number == number {
			return i
		}
	}
	return -1
}

func (w *Ward) maxBedNumber() int {
	max := 0
	for _, b := range w.Beds {
		if n, err := strconv.Atoi(b.Number); err == nil && n > max {
			max = n
		}
	}
	return max
}

func bedNumberLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
