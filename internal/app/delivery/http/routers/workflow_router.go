package routers

import (
	"teleconsult-service/internal/app/delivery/http/controllers"
	"teleconsult-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachWorkflowRoutes(router chi.Router, middlewares *middlewares.Middlewares, workflowController *controllers.WorkflowController) {
	router.With(middlewares.IntakeLimit).Post("/symptoms/collect", workflowController.CollectSymptoms)
	router.Post("/select-consultation", workflowController.SelectConsultation)
	router.Post("/confirm-payment", workflowController.ConfirmPayment)
	router.Post("/symptoms/collect_detailed_symptoms", workflowController.CollectDetailedSymptoms)
	router.Get("/sessions/{sessionId}", workflowController.GetSession)
}
