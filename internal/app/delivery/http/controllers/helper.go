package controllers

import (
	"context"
	"errors"
	"net/http"

	"teleconsult-service/internal/pkg/exceptions"
	"teleconsult-service/internal/pkg/utils"

	"go.uber.org/zap"
)

func requestIDFrom(r *http.Request) string {
	return utils.GetRequestID(r.Context())
}

// writeUsecaseError maps a deadline hit inside the usecase to a 504 and
// passes every other error through unchanged.
func writeUsecaseError(log *zap.Logger, w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}
