package config

import (
	"teleconsult-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DBName:   utils.GetEnvString("MONGODB_DB_NAME", "teleconsult"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		PostgresDB: PostgresDB{
			Port:     utils.GetEnvString("POSTGRES_PORT", "5432"),
			Host:     utils.GetEnvString("POSTGRES_HOST", "localhost"),
			DBName:   utils.GetEnvString("POSTGRES_DB_NAME", "teleconsult"),
			Username: utils.GetEnvString("POSTGRES_USERNAME", "postgres"),
			Password: utils.GetEnvString("POSTGRES_PASSWORD", "postgres"),
			SSLMode:  utils.GetEnvString("POSTGRES_SSL_MODE", "disable"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", ""),
			Host:     utils.GetEnvString("RABBITMQ_HOST", ""),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", ""),
			Host:     utils.GetEnvString("MINIO_HOST", ""),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			BaseUrl:                    utils.GetEnvString("APP_BASE_URL", "http://localhost:8080"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "Asia/Kolkata"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 20),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			RequestTimeoutInSeconds:    utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 30),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 2),
			RateLimitBlockTimeInSecond: utils.GetEnvInt("APP_RATE_LIMIT_BLOCK_TIME_IN_SECOND", 30),
		},
		JWT: AppJWT{
			Secret: utils.GetEnvString("JWT_SECRET", "anyjwt"),
		},
		Workflow: AppWorkflow{
			SymptomPhaseTTLInMinutes:     utils.GetEnvInt("WORKFLOW_SYMPTOM_PHASE_TTL_IN_MINUTES", 60),
			PaymentPhaseTTLInHours:       utils.GetEnvInt("WORKFLOW_PAYMENT_PHASE_TTL_IN_HOURS", 24),
			ConfirmLockTTLInSeconds:      utils.GetEnvInt("WORKFLOW_CONFIRM_LOCK_TTL_IN_SECONDS", 45),
			ConfirmWaitTimeoutInSeconds:  utils.GetEnvInt("WORKFLOW_CONFIRM_WAIT_TIMEOUT_IN_SECONDS", 20),
			ConfirmWaitIntervalInMillis:  utils.GetEnvInt("WORKFLOW_CONFIRM_WAIT_INTERVAL_IN_MILLIS", 200),
			PaymentOrderExpiryInMinutes:  utils.GetEnvInt("WORKFLOW_PAYMENT_ORDER_EXPIRY_IN_MINUTES", 30),
			VerificationTimeoutInSeconds: utils.GetEnvInt("WORKFLOW_VERIFICATION_TIMEOUT_IN_SECONDS", 25),
		},
		Pricing: AppPricing{
			Currency:   utils.GetEnvString("PRICING_CURRENCY", "INR"),
			ChatPrice:  utils.GetEnvFloat("PRICING_CHAT_PRICE", 199),
			AudioPrice: utils.GetEnvFloat("PRICING_AUDIO_PRICE", 299),
			VideoPrice: utils.GetEnvFloat("PRICING_VIDEO_PRICE", 499),
		},
		PaymentGateway: AppPaymentGateway{
			Provider:               utils.GetEnvString("PAYMENT_PROVIDER", "mock"),
			BaseUrl:                utils.GetEnvString("PAYMENT_GATEWAY_BASE_URL", "https://api.razorpay.com/v1"),
			KeyID:                  utils.GetEnvString("PAYMENT_GATEWAY_KEY_ID", ""),
			KeySecret:              utils.GetEnvString("PAYMENT_GATEWAY_KEY_SECRET", ""),
			CheckoutUrl:            utils.GetEnvString("PAYMENT_GATEWAY_CHECKOUT_URL", "https://checkout.razorpay.com/v1/checkout"),
			RequestTimeoutInSecs:   utils.GetEnvInt("PAYMENT_GATEWAY_REQUEST_TIMEOUT_IN_SECONDS", 10),
			MaxRetryAttempts:       utils.GetEnvInt("PAYMENT_GATEWAY_MAX_RETRY_ATTEMPTS", 3),
			RetryInitialIntervalMs: utils.GetEnvInt("PAYMENT_GATEWAY_RETRY_INITIAL_INTERVAL_IN_MILLIS", 300),
		},
		DoctorShift: AppDoctorShift{
			FallbackDoctorID:  utils.GetEnvString("DOCTOR_SHIFT_FALLBACK_DOCTOR_ID", ""),
			CacheTTLInMinutes: utils.GetEnvInt("DOCTOR_SHIFT_CACHE_TTL_IN_MINUTES", 15),
		},
		Diagnosis: AppDiagnosis{
			OpenAIAPIKey:     utils.GetEnvString("OPENAI_API_KEY", ""),
			OpenAIModel:      utils.GetEnvString("OPENAI_MODEL_DIAGNOSIS", "gpt-4o-mini"),
			TimeoutInSeconds: utils.GetEnvInt("AI_DIAGNOSIS_TIMEOUT_IN_SECONDS", 20),
		},
		Encryption: AppEncryption{
			FieldEncryptionKey: utils.GetEnvString("FIELD_ENCRYPTION_KEY", ""),
		},
		Minio: AppMinio{
			BucketName: utils.GetEnvString("MINIO_INTAKE_BUCKET_NAME", "consultation-intake"),
		},
		RabbitMQ: AppRabbitMQ{
			AuditQueue: utils.GetEnvString("RABBITMQ_AUDIT_QUEUE", "consultation_audit_events"),
		},
		Consultation: AppConsultation{
			ExpiryCronSpec:    utils.GetEnvString("CONSULTATION_EXPIRY_CRON_SPEC", "@every 15m"),
			StaleAfterInHours: utils.GetEnvInt("CONSULTATION_STALE_AFTER_IN_HOURS", 48),
			ExpiryBatchSize:   utils.GetEnvInt("CONSULTATION_EXPIRY_BATCH_SIZE", 100),
		},
		IntakeLimit: AppIntakeLimit{
			PerMinute:  utils.GetEnvInt("INTAKE_LIMIT_PER_MINUTE", 5),
			DailyQuota: utils.GetEnvInt("INTAKE_LIMIT_DAILY_QUOTA", 30),
		},
	}
}
