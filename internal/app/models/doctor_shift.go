package models

import "time"

const (
	ShiftTypeMorning   = "morning"
	ShiftTypeAfternoon = "afternoon"
	ShiftTypeEvening   = "evening"
	ShiftTypeNight     = "night"
	ShiftTypeCustom    = "custom"
)

const (
	ShiftStatusActive   = "active"
	ShiftStatusInactive = "inactive"
)

type DoctorShift struct {
	ShiftID       string     `json:"shiftId" bson:"_id"`
	ShiftType     string     `json:"shiftType" bson:"shiftType"`
	DoctorID      string     `json:"doctorId" bson:"doctorId"`
	StartHour     int        `json:"startHour" bson:"startHour"`
	EndHour       int        `json:"endHour" bson:"endHour"`
	Status        string     `json:"status" bson:"status"`
	EffectiveFrom *time.Time `json:"effectiveFrom,omitempty" bson:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty" bson:"effectiveTo,omitempty"`
	TimeModel     `bson:",inline"`
}

// Covers reports whether the shift window [StartHour, EndHour) contains hour.
// A window with StartHour > EndHour wraps past midnight and one with
// StartHour == EndHour spans the whole day.
func (s *DoctorShift) Covers(hour int) bool {
	switch {
	case s.StartHour == s.EndHour:
		return true
	case s.StartHour < s.EndHour:
		return hour >= s.StartHour && hour < s.EndHour
	default:
		return hour >= s.StartHour || hour < s.EndHour
	}
}

// EffectiveAt reports whether at falls inside the optional effective range.
func (s *DoctorShift) EffectiveAt(at time.Time) bool {
	if s.EffectiveFrom != nil && at.Before(*s.EffectiveFrom) {
		return false
	}
	if s.EffectiveTo != nil && !at.Before(*s.EffectiveTo) {
		return false
	}
	return true
}

func (s *DoctorShift) IsActive() bool {
	return s.Status == ShiftStatusActive
}

// DoctorAssignment is the outcome of resolving the responsible doctor.
type DoctorAssignment struct {
	DoctorID string `json:"doctorId"`
	Hour     int    `json:"hour"`
	ShiftID  string `json:"shiftId,omitempty"`
	Fallback bool   `json:"fallback"`
}
