package routers

import (
	"teleconsult-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachConsultationRoutes(router chi.Router, consultationController *controllers.ConsultationController) {
	router.Get("/active", consultationController.GetActiveConsultation)
	router.Get("/", consultationController.ListConsultations)

	router.Route("/{consultationId}", func(r chi.Router) {
		r.Get("/", consultationController.GetConsultation)
		r.Patch("/status", consultationController.UpdateStatus)
		r.Post("/diagnosis", consultationController.RecordDiagnosis)
		r.Post("/refund", consultationController.RefundConsultation)
	})
}
