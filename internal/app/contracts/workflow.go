package contracts

import (
	"context"

	"teleconsult-service/internal/pkg/dto/requests"
	"teleconsult-service/internal/pkg/dto/responses"
)

type WorkflowUsecase interface {
	CollectSymptoms(ctx context.Context, patientID string, request *requests.CollectSymptoms) (*responses.CollectSymptoms, error)
	SelectConsultation(ctx context.Context, patientID string, request *requests.SelectConsultation) (*responses.SelectConsultation, error)
	ConfirmPayment(ctx context.Context, patientID string, request *requests.ConfirmPayment) (*responses.ConfirmPayment, error)
	CollectDetailedSymptoms(ctx context.Context, patientID string, request *requests.CollectDetailedSymptoms) (*responses.CollectDetailedSymptoms, error)
	GetSession(ctx context.Context, patientID, sessionID string) (*responses.SessionView, error)
}
