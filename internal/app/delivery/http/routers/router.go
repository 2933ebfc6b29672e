package routers

import (
	"fmt"
	"io"
	"time"

	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/app/delivery/http/controllers"
	"teleconsult-service/internal/app/delivery/http/middlewares"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func SetupRoutes(
	router *chi.Mux,
	logger *zap.Logger,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	workflowController *controllers.WorkflowController,
	doctorShiftController *controllers.DoctorShiftController,
	consultationController *controllers.ConsultationController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "Retry-After", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.GlobalRateLimit())
	router.Use(newIPRateLimiter(internalConfig, logger).Limit)
	if internalConfig.App.RequestTimeoutInSeconds > 0 {
		router.Use(middleware.Timeout(time.Duration(internalConfig.App.RequestTimeoutInSeconds) * time.Second))
	}

	router.Use(newCompressor().Handler)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Use(middlewares.Authenticate)
			r.Use(middlewares.Authorize)

			attachWorkflowRoutes(r, middlewares, workflowController)

			r.Route("/doctor-shifts", func(r chi.Router) {
				attachDoctorShiftRoutes(r, doctorShiftController)
			})

			r.Route("/consultations", func(r chi.Router) {
				attachConsultationRoutes(r, consultationController)
			})
		})
	})
}

// BasePath is the prefix every API route is mounted under.
func BasePath(internalConfig *config.InternalConfig) string {
	return fmt.Sprintf("/%s/%s", internalConfig.App.EndpointPrefix, internalConfig.App.Version)
}

// newCompressor compresses JSON responses with brotli when the client accepts
// it and falls back to gzip or deflate.
func newCompressor() *middleware.Compressor {
	compressor := middleware.NewCompressor(5, "application/json")
	compressor.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	return compressor
}

// newIPRateLimiter blocks an IP for the configured time once it bursts past
// MaxRequests in a second.
func newIPRateLimiter(internalConfig *config.InternalConfig, logger *zap.Logger) *middlewares.RateLimiter {
	requests := internalConfig.App.MaxRequests
	if requests <= 0 {
		requests = 1
	}
	blockTime := time.Duration(internalConfig.App.RateLimitBlockTimeInSecond) * time.Second
	return middlewares.NewRateLimiter(requests, time.Second/time.Duration(requests), blockTime, logger)
}
