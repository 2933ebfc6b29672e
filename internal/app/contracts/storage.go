package contracts

import (
	"context"

	"teleconsult-service/internal/app/models"
)

type IntakeArchive interface {
	Archive(ctx context.Context, consultationID string, snapshot *models.IntakeSnapshot) (string, error)
}
