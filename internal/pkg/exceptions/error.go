package exceptions

import (
	"errors"
	"fmt"
	"runtime"
	"teleconsult-service/internal/pkg/constvars"
)

type CustomError struct {
	StatusCode    int        `json:"status_code"`
	Success       bool       `json:"success"`
	ClientMessage string     `json:"message"`
	ErrorCode     string     `json:"error_code,omitempty"`
	DevMessage    string     `json:"dev_message,omitempty"`
	Locations     []Location `json:"locations,omitempty"`
	Err           error      `json:"-"`
}

type Location struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"function_name"`
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	location := e.Locations[0]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, location.File, location.Line, location.FunctionName)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// BuildNewCustomError wraps err with an HTTP status and messages. The error code
// is derived from the status code.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	return buildCustomError(err, statusCode, defaultErrorCode(statusCode), clientMessage, devMessage)
}

func BuildNewCustomErrorWithCode(err error, statusCode int, errorCode, clientMessage, devMessage string) *CustomError {
	return buildCustomError(err, statusCode, errorCode, clientMessage, devMessage)
}

func buildCustomError(err error, statusCode int, errorCode, clientMessage, devMessage string) *CustomError {
	customErr := &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		ErrorCode:     errorCode,
		DevMessage:    devMessage,
		Err:           err,
		Locations:     []Location{getLocation(3)},
	}

	var inner *CustomError
	if err != nil {
		customErr.DevMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
		if errors.As(err, &inner) {
			customErr.Locations = append(customErr.Locations, inner.Locations...)
		}
	}
	return customErr
}

// HasCode reports whether any CustomError in err's chain carries the given code.
func HasCode(err error, errorCode string) bool {
	for err != nil {
		var customErr *CustomError
		if !errors.As(err, &customErr) {
			return false
		}
		if customErr.ErrorCode == errorCode {
			return true
		}
		err = customErr.Err
	}
	return false
}

func defaultErrorCode(statusCode int) string {
	switch statusCode {
	case constvars.StatusBadRequest:
		return constvars.ErrCodeValidationFailed
	case constvars.StatusUnauthorized:
		return constvars.ErrCodeUnauthorized
	case constvars.StatusForbidden:
		return constvars.ErrCodeForbidden
	case constvars.StatusGatewayTimeout:
		return constvars.ErrCodeTimeout
	default:
		return constvars.ErrCodeInternal
	}
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
