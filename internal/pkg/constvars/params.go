package constvars

const (
	URLQueryParamPage     = "page"
	URLQueryParamPageSize = "page_size"
	URLQueryParamStatus   = "status"
	URLQueryParamDoctorID = "doctor_id"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
	DefaultPage            = 1
	DefaultPageSize        = 10
	MaxPageSize            = 100
)
