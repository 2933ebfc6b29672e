package doctor_shifts

import (
	"testing"
	"time"

	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shift(id, doctorID string, start, end int, updatedAt time.Time) models.DoctorShift {
	s := models.DoctorShift{
		ShiftID:   id,
		ShiftType: models.ShiftTypeCustom,
		DoctorID:  doctorID,
		StartHour: start,
		EndHour:   end,
		Status:    models.ShiftStatusActive,
	}
	s.UpdatedAt = updatedAt
	return s
}

func atHour(hour int) time.Time {
	return time.Date(2026, 3, 10, hour, 15, 0, 0, time.UTC)
}

func TestResolve_TotalWithFallback(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	shifts := []models.DoctorShift{
		shift("morning", "dr-morning", 6, 12, base),
		shift("evening", "dr-evening", 16, 22, base),
	}

	for hour := 0; hour < 24; hour++ {
		assignment, err := Resolve(atHour(hour), shifts, "dr-fallback")
		require.NoError(t, err, "hour %d", hour)
		assert.NotEmpty(t, assignment.DoctorID, "hour %d", hour)
		assert.Equal(t, hour, assignment.Hour)
	}

	assignment, _ := Resolve(atHour(13), shifts, "dr-fallback")
	assert.Equal(t, "dr-fallback", assignment.DoctorID)
	assert.True(t, assignment.Fallback)

	assignment, _ = Resolve(atHour(6), shifts, "dr-fallback")
	assert.Equal(t, "dr-morning", assignment.DoctorID)
	assert.False(t, assignment.Fallback)

	assignment, _ = Resolve(atHour(12), shifts, "dr-fallback")
	assert.Equal(t, "dr-fallback", assignment.DoctorID, "end hour is exclusive")
}

func TestResolve_WrapsPastMidnight(t *testing.T) {
	shifts := []models.DoctorShift{shift("night", "dr-night", 22, 6, time.Time{})}

	for _, hour := range []int{22, 23, 0, 3, 5} {
		assignment, err := Resolve(atHour(hour), shifts, "")
		require.NoError(t, err, "hour %d", hour)
		assert.Equal(t, "dr-night", assignment.DoctorID, "hour %d", hour)
	}

	_, err := Resolve(atHour(6), shifts, "")
	require.Error(t, err)
	assert.True(t, exceptions.HasCode(err, constvars.ErrCodeDoctorUnavailable))
}

func TestResolve_OverlapPrefersMostRecentlyUpdated(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	shifts := []models.DoctorShift{
		shift("a", "dr-old", 8, 18, older),
		shift("b", "dr-new", 10, 14, newer),
	}

	assignment, err := Resolve(atHour(11), shifts, "")
	require.NoError(t, err)
	assert.Equal(t, "dr-new", assignment.DoctorID)
	assert.Equal(t, "b", assignment.ShiftID)
}

func TestResolve_TieBrokenByShiftID(t *testing.T) {
	same := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	shifts := []models.DoctorShift{
		shift("shift-2", "dr-two", 0, 0, same),
		shift("shift-1", "dr-one", 0, 0, same),
	}

	for i := 0; i < 5; i++ {
		assignment, err := Resolve(atHour(9), shifts, "")
		require.NoError(t, err)
		assert.Equal(t, "dr-one", assignment.DoctorID)
	}
}

func TestResolve_SkipsInactiveAndOutOfRangeShifts(t *testing.T) {
	inactive := shift("inactive", "dr-inactive", 0, 0, time.Time{})
	inactive.Status = models.ShiftStatusInactive

	future := shift("future", "dr-future", 0, 0, time.Time{})
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	future.EffectiveFrom = &from

	expired := shift("expired", "dr-expired", 0, 0, time.Time{})
	to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expired.EffectiveTo = &to

	assignment, err := Resolve(atHour(9), []models.DoctorShift{inactive, future, expired}, "dr-fallback")
	require.NoError(t, err)
	assert.Equal(t, "dr-fallback", assignment.DoctorID)
	assert.True(t, assignment.Fallback)
}

func TestResolve_NoShiftsNoFallback(t *testing.T) {
	_, err := Resolve(atHour(9), nil, "")
	require.Error(t, err)
	assert.True(t, exceptions.HasCode(err, constvars.ErrCodeDoctorUnavailable))
}

func TestNextBoundary(t *testing.T) {
	at := time.Date(2026, 3, 10, 10, 5, 0, 0, time.UTC)
	inHour := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	endsSooner := time.Date(2026, 3, 10, 10, 20, 0, 0, time.UTC)
	nextHour := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)

	starting := shift("starting", "dr-a", 8, 20, time.Time{})
	starting.EffectiveFrom = &inHour
	ending := shift("ending", "dr-b", 8, 20, time.Time{})
	ending.EffectiveTo = &endsSooner
	later := shift("later", "dr-c", 8, 20, time.Time{})
	later.EffectiveFrom = &nextHour
	offHours := shift("night", "dr-d", 22, 6, time.Time{})
	offHours.EffectiveFrom = &inHour

	boundary, ok := NextBoundary(at, []models.DoctorShift{starting, ending, later, offHours})
	require.True(t, ok)
	assert.Equal(t, endsSooner, boundary)

	_, ok = NextBoundary(at, []models.DoctorShift{later, offHours, shift("plain", "dr-e", 8, 20, time.Time{})})
	assert.False(t, ok)
}
