package routers

import (
	"teleconsult-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachDoctorShiftRoutes(router chi.Router, doctorShiftController *controllers.DoctorShiftController) {
	router.Get("/current-doctor", doctorShiftController.CurrentDoctor)
	router.Get("/", doctorShiftController.ListShifts)
	router.Post("/", doctorShiftController.CreateShift)
	router.Put("/{shiftId}", doctorShiftController.UpdateShift)
	router.Delete("/{shiftId}", doctorShiftController.DeactivateShift)
}
