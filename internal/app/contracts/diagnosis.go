package contracts

import (
	"context"

	"teleconsult-service/internal/app/models"
)

type DiagnosisService interface {
	Diagnose(ctx context.Context, intake *models.SymptomIntake) (*models.Diagnosis, error)
}
