package responses

type CurrentDoctor struct {
	ActiveDoctorID string `json:"activeDoctorId"`
	Hour           int    `json:"hour"`
	Fallback       bool   `json:"fallback"`
}
