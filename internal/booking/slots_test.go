package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotGridTimes(t *testing.T) {
	grid, err := NewSlotGrid("09:00", "11:00", 30*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, grid.Times())
}

func TestSlotGridHourly(t *testing.T) {
	grid, err := NewSlotGrid("10:00", "13:00", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, []string{"10:00", "11:00", "12:00"}, grid.Times())
}

func TestSlotGridContains(t *testing.T) {
	grid, err := NewSlotGrid("09:00", "17:00", 30*time.Minute)
	require.NoError(t, err)

	assert.True(t, grid.Contains("09:00"))
	assert.True(t, grid.Contains("14:00"))
	assert.True(t, grid.Contains("16:30"))

	assert.False(t, grid.Contains("17:00"), "close time is exclusive")
	assert.False(t, grid.Contains("08:30"), "before opening")
	assert.False(t, grid.Contains("14:15"), "off the grid")
	assert.False(t, grid.Contains("garbage"))
	assert.False(t, grid.Contains(""))
}

func TestSlotGridAvailable(t *testing.T) {
	grid, err := NewSlotGrid("09:00", "11:00", 30*time.Minute)
	require.NoError(t, err)

	available := grid.Available([]string{"09:30", "10:30"})
	assert.Equal(t, []string{"09:00", "10:00"}, available)

	assert.Empty(t, grid.Available(grid.Times()), "fully booked day")
	assert.Equal(t, grid.Times(), grid.Available(nil), "empty day")
}

func TestSlotGridAvailableIgnoresUnknownTimes(t *testing.T) {
	grid, err := NewSlotGrid("09:00", "10:00", 30*time.Minute)
	require.NoError(t, err)

	// A booked time outside the grid (e.g. after an hours change) must not
	// disturb the remaining slots.
	assert.Equal(t, []string{"09:00", "09:30"}, grid.Available([]string{"18:00"}))
}

func TestNewSlotGridRejectsBadBounds(t *testing.T) {
	_, err := NewSlotGrid("17:00", "09:00", 30*time.Minute)
	assert.Error(t, err)

	_, err = NewSlotGrid("09:00", "09:00", 30*time.Minute)
	assert.Error(t, err)

	_, err = NewSlotGrid("nine", "17:00", 30*time.Minute)
	assert.Error(t, err)

	_, err = NewSlotGrid("09:00", "17:00", 0)
	assert.Error(t, err)
}
