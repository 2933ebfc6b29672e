package requests

import "time"

type CreateDoctorShift struct {
	ShiftType     string     `json:"shiftType" validate:"required,shift_type"`
	DoctorID      string     `json:"doctorId" validate:"required,max=100"`
	StartHour     *int       `json:"startHour" validate:"required,hour_of_day"`
	EndHour       *int       `json:"endHour" validate:"required,hour_of_day"`
	EffectiveFrom *time.Time `json:"effectiveFrom"`
	EffectiveTo   *time.Time `json:"effectiveTo"`
}

type UpdateDoctorShift struct {
	ShiftID       string     `json:"-" validate:"required"`
	ShiftType     string     `json:"shiftType" validate:"omitempty,shift_type"`
	DoctorID      string     `json:"doctorId" validate:"max=100"`
	StartHour     *int       `json:"startHour" validate:"omitempty,hour_of_day"`
	EndHour       *int       `json:"endHour" validate:"omitempty,hour_of_day"`
	Status        string     `json:"status" validate:"omitempty,oneof=active inactive"`
	EffectiveFrom *time.Time `json:"effectiveFrom"`
	EffectiveTo   *time.Time `json:"effectiveTo"`
}

type ListDoctorShifts struct {
	Status   string `validate:"omitempty,oneof=active inactive"`
	DoctorID string
}
