package doctor_shifts

import (
	"errors"
	"time"

	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/exceptions"
)

// Resolve picks the doctor responsible at the given instant. The hour is taken
// from at as-is, so callers convert it to the clinic time zone first.
//
// Among active shifts effective at that instant whose window covers the hour,
// the most recently updated one wins, ties going to the smallest shift id.
// When nothing covers the hour the fallback doctor is returned, and with no
// fallback the result is DOCTOR_UNAVAILABLE.
func Resolve(at time.Time, shifts []models.DoctorShift, fallbackDoctorID string) (models.DoctorAssignment, error) {
	hour := at.Hour()

	var winner *models.DoctorShift
	for i := range shifts {
		shift := &shifts[i]
		if !shift.IsActive() || !shift.EffectiveAt(at) || !shift.Covers(hour) || shift.DoctorID == "" {
			continue
		}
		if winner == nil || preferred(shift, winner) {
			winner = shift
		}
	}

	if winner != nil {
		return models.DoctorAssignment{DoctorID: winner.DoctorID, Hour: hour, ShiftID: winner.ShiftID}, nil
	}
	if fallbackDoctorID != "" {
		return models.DoctorAssignment{DoctorID: fallbackDoctorID, Hour: hour, Fallback: true}, nil
	}
	return models.DoctorAssignment{Hour: hour}, exceptions.ErrDoctorUnavailable(errors.New("no shift covers the hour and no fallback doctor is configured"), hour)
}

func preferred(candidate, current *models.DoctorShift) bool {
	if !candidate.UpdatedAt.Equal(current.UpdatedAt) {
		return candidate.UpdatedAt.After(current.UpdatedAt)
	}
	return candidate.ShiftID < current.ShiftID
}

// NextBoundary returns the earliest effective bound of an active shift covering
// at's hour that falls after at and before that hour ends. A cached assignment
// for the hour is stale from that instant on.
func NextBoundary(at time.Time, shifts []models.DoctorShift) (time.Time, bool) {
	hourEnd := time.Date(at.Year(), at.Month(), at.Day(), at.Hour()+1, 0, 0, 0, at.Location())

	var next time.Time
	found := false
	for i := range shifts {
		shift := &shifts[i]
		if !shift.IsActive() || !shift.Covers(at.Hour()) {
			continue
		}
		for _, bound := range []*time.Time{shift.EffectiveFrom, shift.EffectiveTo} {
			if bound == nil || !bound.After(at) || !bound.Before(hourEnd) {
				continue
			}
			if !found || bound.Before(next) {
				next = *bound
				found = true
			}
		}
	}
	return next, found
}
