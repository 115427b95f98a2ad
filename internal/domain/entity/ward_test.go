package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWard(t *testing.T) {
	w, err := NewWard("Enfermaria A", "Clínica Médica", 4)
	require.NoError(t, err)

	assert.Equal(t, WardStatusActive, w.Status)
	assert.Equal(t, 4, w.TotalBeds)
	assert.Equal(t, 0, w.OccupiedBeds)
	assert.Equal(t, []string{"1", "2", "3", "4"}, w.FreeBedNumbers())

	_, err = NewWard("Empty", "Clínica Médica", 0)
	assert.ErrorIs(t, err, ErrInvalidBedCount)
}

func TestWard_OccupyAndFree(t *testing.T) {
	w, err := NewWard("UTI", "Terapia Intensiva", 2)
	require.NoError(t, err)

	require.NoError(t, w.Occupy("1", "p-1"))
	assert.Equal(t, 1, w.OccupiedBeds)
	assert.Equal(t, 1, w.AvailableBeds())
	assert.True(t, w.HasOccupiedBeds())
	require.NotNil(t, w.Beds[0].PatientID)
	assert.Equal(t, "p-1", *w.Beds[0].PatientID)

	assert.ErrorIs(t, w.Occupy("1", "p-2"), ErrBedAlreadyOccupied)
	assert.ErrorIs(t, w.Occupy("9", "p-2"), ErrBedNotFound)

	changed, err := w.Free("1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, w.Beds[0].PatientID)
	assert.Equal(t, 0, w.OccupiedBeds)

	changed, err = w.Free("1")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = w.Free("9")
	assert.ErrorIs(t, err, ErrBedNotFound)
}

func TestWard_AppendAndRemoveBeds(t *testing.T) {
	w, err := NewWard("Enfermaria B", "Cirurgia", 3)
	require.NoError(t, err)
	require.NoError(t, w.Occupy("3", "p-1"))

	w.AppendBeds(2)
	assert.Equal(t, 5, w.TotalBeds)
	assert.Equal(t, []string{"1", "2", "4", "5"}, w.FreeBedNumbers())

	require.NoError(t, w.RemoveFreeBeds(3))
	assert.Equal(t, 2, w.TotalBeds)
	assert.Equal(t, 1, w.OccupiedBeds)
	assert.Equal(t, []string{"1"}, w.FreeBedNumbers())

	// occupied beds are never removed
	assert.ErrorIs(t, w.RemoveFreeBeds(2), ErrNotEnoughFreeBeds)
	assert.Equal(t, 2, w.TotalBeds)
}

func TestWard_CloneIsDeep(t *testing.T) {
	w, err := NewWard("Enfermaria C", "Pediatria", 1)
	require.NoError(t, err)
	require.NoError(t, w.Occupy("1", "p-1"))

	c := w.Clone()
	_, err = c.Free("1")
	require.NoError(t, err)

	assert.True(t, w.Beds[0].Occupied)
	assert.Equal(t, "p-1", *w.Beds[0].PatientID)
}

func TestWard_FreeBedNumbersNaturalOrder(t *testing.T) {
	w := Ward{Beds: []Bed{{Number: "10"}, {Number: "2"}, {Number: "B"}, {Number: "1"}}}
	w.Recount()

	assert.Equal(t, []string{"1", "2", "10", "B"}, w.FreeBedNumbers())
}
