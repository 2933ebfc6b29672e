package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/delivery/http/controllers"
	"teleconsult-service/internal/app/delivery/http/middlewares"
	"teleconsult-service/internal/app/delivery/http/routers"
	"teleconsult-service/internal/app/drivers/database"
	"teleconsult-service/internal/app/drivers/logger"
	"teleconsult-service/internal/app/drivers/messaging"
	"teleconsult-service/internal/app/drivers/storage"
	"teleconsult-service/internal/app/services/core/consultations"
	"teleconsult-service/internal/app/services/core/doctor_shifts"
	"teleconsult-service/internal/app/services/core/payments"
	"teleconsult-service/internal/app/services/core/session"
	"teleconsult-service/internal/app/services/core/workflow"
	"teleconsult-service/internal/app/services/shared/audit"
	"teleconsult-service/internal/app/services/shared/diagnosis"
	"teleconsult-service/internal/app/services/shared/encryption"
	"teleconsult-service/internal/app/services/shared/locker"
	"teleconsult-service/internal/app/services/shared/payment_gateway"
	"teleconsult-service/internal/app/services/shared/ratelimiter"
	"teleconsult-service/internal/app/services/shared/redis"
	intakeStorage "teleconsult-service/internal/app/services/shared/storage"
	"teleconsult-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Version and Tag are set at build time with -ldflags.
var (
	Version = "develop"
	Tag     = "0.0.1-rc"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.String("timezone", internalConfig.App.Timezone), zap.Error(err))
	}
	time.Local = location

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		MongoDB:        database.NewMongoDB(driverConfig, log),
		PostgresDB:     database.NewPostgresDB(driverConfig, log),
		Redis:          database.NewRedisClient(driverConfig, log),
		RabbitMQ:       messaging.NewRabbitMQ(driverConfig, log),
		Minio:          storage.NewMinio(driverConfig, log),
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	if err := bootstrapingTheApp(bootstrap, location); err != nil {
		log.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: bootstrap.Router,
	}

	go func() {
		log.Info("Server started",
			zap.String("addr", server.Addr),
			zap.String("version", Version),
			zap.String("tag", Tag),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to release resources", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap, location *time.Location) error {
	ctx := context.Background()
	log := bootstrap.Logger
	internalConfig := bootstrap.InternalConfig

	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, log)
	sessionStore := session.NewSessionStore(redisRepository, log)

	// Encryption
	fieldCipher, err := newFieldCipher(internalConfig, log)
	if err != nil {
		return err
	}

	// Payment
	paymentGateway, err := payment_gateway.NewPaymentGateway(internalConfig, log)
	if err != nil {
		return err
	}
	paymentLedger := payments.NewPaymentLedgerPostgresRepository(bootstrap.PostgresDB)

	// Collaborators
	diagnosisService := diagnosis.NewDiagnosisService(internalConfig, log)
	auditPublisher, err := audit.NewRabbitMQPublisher(bootstrap.RabbitMQ, internalConfig.RabbitMQ.AuditQueue, log)
	if err != nil {
		return err
	}
	intakeArchive, err := intakeStorage.NewMinioIntakeArchive(ctx, bootstrap.Minio, internalConfig.Minio.BucketName, fieldCipher, log)
	if err != nil {
		return err
	}

	// Doctor shifts
	doctorShiftRepository := doctor_shifts.NewDoctorShiftMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DBName)
	doctorResolver := doctor_shifts.NewDoctorResolver(doctorShiftRepository, redisRepository, internalConfig, log)
	doctorShiftUsecase := doctor_shifts.NewDoctorShiftUsecase(doctorShiftRepository, doctorResolver, internalConfig, log)

	// Consultations
	consultationRepository := consultations.NewConsultationMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DBName, fieldCipher)
	consultationUsecase := consultations.NewConsultationUsecase(consultationRepository, paymentGateway, paymentLedger, lockerService, auditPublisher, internalConfig, log)

	for _, indexed := range []interface{ EnsureIndexes(context.Context) error }{consultationRepository, doctorShiftRepository} {
		if err := indexed.EnsureIndexes(ctx); err != nil {
			return err
		}
	}

	// Workflow
	workflowUsecase := workflow.NewWorkflowUsecase(workflow.Dependencies{
		SessionStore:           sessionStore,
		Locker:                 lockerService,
		PaymentGateway:         paymentGateway,
		PaymentLedger:          paymentLedger,
		DiagnosisService:       diagnosisService,
		DoctorResolver:         doctorResolver,
		ConsultationRepository: consultationRepository,
		IntakeArchive:          intakeArchive,
		AuditPublisher:         auditPublisher,
	}, workflow.SettingsFromConfig(internalConfig, location), log)

	// Background workers
	expiryWorker := consultations.NewExpiryWorker(log, internalConfig.Consultation.ExpiryCronSpec, lockerService, consultationUsecase)
	expiryWorker.Start(ctx)
	bootstrap.WorkerStop = func() {
		expiryWorker.Stop()
		if err := auditPublisher.Close(); err != nil {
			log.Warn("Failed to close audit publisher", zap.Error(err))
		}
	}

	// Middlewares
	intakeLimiter := ratelimiter.NewIntakeLimiter(redisRepository, log,
		ratelimiter.Window{Name: "minute", Duration: time.Minute, Quota: internalConfig.IntakeLimit.PerMinute},
		ratelimiter.Window{Name: "day", Duration: 24 * time.Hour, Quota: internalConfig.IntakeLimit.DailyQuota},
	)
	enforcer, err := middlewares.NewEnforcer(middlewares.DefaultPermissions(routers.BasePath(internalConfig)))
	if err != nil {
		return err
	}
	middlewares := middlewares.NewMiddlewares(log, internalConfig, intakeLimiter, enforcer)

	// Controllers
	workflowController := controllers.NewWorkflowController(log, workflowUsecase)
	doctorShiftController := controllers.NewDoctorShiftController(log, doctorShiftUsecase)
	consultationController := controllers.NewConsultationController(log, consultationUsecase)

	routers.SetupRoutes(bootstrap.Router, log, internalConfig, middlewares, workflowController, doctorShiftController, consultationController)
	return nil
}

// newFieldCipher falls back to a random key outside production so local runs
// work without FIELD_ENCRYPTION_KEY.
func newFieldCipher(internalConfig *config.InternalConfig, log *zap.Logger) (contracts.FieldCipher, error) {
	if internalConfig.Encryption.FieldEncryptionKey != "" {
		return encryption.NewFieldCipher(internalConfig.Encryption.FieldEncryptionKey)
	}
	if internalConfig.App.Env == constvars.AppEnvProduction {
		return nil, errors.New("FIELD_ENCRYPTION_KEY is required in production")
	}
	log.Warn("FIELD_ENCRYPTION_KEY is not set, using an ephemeral key")
	return encryption.NewEphemeralFieldCipher()
}
