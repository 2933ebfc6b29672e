package config

type InternalConfig struct {
	App            App               `mapstructure:"app"`
	JWT            AppJWT            `mapstructure:"jwt"`
	Workflow       AppWorkflow       `mapstructure:"workflow"`
	Pricing        AppPricing        `mapstructure:"pricing"`
	PaymentGateway AppPaymentGateway `mapstructure:"payment_gateway"`
	DoctorShift    AppDoctorShift    `mapstructure:"doctor_shift"`
	Diagnosis      AppDiagnosis      `mapstructure:"diagnosis"`
	Encryption     AppEncryption     `mapstructure:"encryption"`
	Minio          AppMinio          `mapstructure:"minio"`
	RabbitMQ       AppRabbitMQ       `mapstructure:"rabbitmq"`
	Consultation   AppConsultation   `mapstructure:"consultation"`
	IntakeLimit    AppIntakeLimit    `mapstructure:"intake_limit"`
}

type App struct {
	Env                        string `mapstructure:"env"`
	Port                       string `mapstructure:"port"`
	Version                    string `mapstructure:"version"`
	BaseUrl                    string `mapstructure:"base_url"`
	Timezone                   string `mapstructure:"timezone"`
	EndpointPrefix             string `mapstructure:"endpoint_prefix"`
	MaxRequests                int    `mapstructure:"max_requests"`
	ShutdownTimeoutInSeconds   int    `mapstructure:"shutdown_timeout_in_seconds"`
	RequestTimeoutInSeconds    int    `mapstructure:"request_timeout_in_seconds"`
	RequestBodyLimitInMegabyte int    `mapstructure:"request_body_limit_in_megabyte"`
	RateLimitBlockTimeInSecond int    `mapstructure:"rate_limit_block_time_in_second"`
}

type AppJWT struct {
	Secret string `mapstructure:"secret"`
}

// AppWorkflow controls the TTLs of the ephemeral workflow session.
type AppWorkflow struct {
	SymptomPhaseTTLInMinutes     int `mapstructure:"symptom_phase_ttl_in_minutes"`
	PaymentPhaseTTLInHours       int `mapstructure:"payment_phase_ttl_in_hours"`
	ConfirmLockTTLInSeconds      int `mapstructure:"confirm_lock_ttl_in_seconds"`
	ConfirmWaitTimeoutInSeconds  int `mapstructure:"confirm_wait_timeout_in_seconds"`
	ConfirmWaitIntervalInMillis  int `mapstructure:"confirm_wait_interval_in_millis"`
	PaymentOrderExpiryInMinutes  int `mapstructure:"payment_order_expiry_in_minutes"`
	VerificationTimeoutInSeconds int `mapstructure:"verification_timeout_in_seconds"`
}

// AppPricing holds the consultation fee per consultation type, in minor-free
// units of Currency.
type AppPricing struct {
	Currency   string  `mapstructure:"currency"`
	ChatPrice  float64 `mapstructure:"chat_price"`
	AudioPrice float64 `mapstructure:"audio_price"`
	VideoPrice float64 `mapstructure:"video_price"`
}

type AppPaymentGateway struct {
	Provider               string `mapstructure:"provider"`
	BaseUrl                string `mapstructure:"base_url"`
	KeyID                  string `mapstructure:"key_id"`
	KeySecret              string `mapstructure:"key_secret"`
	CheckoutUrl            string `mapstructure:"checkout_url"`
	RequestTimeoutInSecs   int    `mapstructure:"request_timeout_in_seconds"`
	MaxRetryAttempts       int    `mapstructure:"max_retry_attempts"`
	RetryInitialIntervalMs int    `mapstructure:"retry_initial_interval_in_millis"`
}

type AppDoctorShift struct {
	FallbackDoctorID  string `mapstructure:"fallback_doctor_id"`
	CacheTTLInMinutes int    `mapstructure:"cache_ttl_in_minutes"`
}

type AppDiagnosis struct {
	OpenAIAPIKey     string `mapstructure:"openai_api_key"`
	OpenAIModel      string `mapstructure:"openai_model"`
	TimeoutInSeconds int    `mapstructure:"timeout_in_seconds"`
}

type AppEncryption struct {
	FieldEncryptionKey string `mapstructure:"field_encryption_key"`
}

type AppMinio struct {
	BucketName string `mapstructure:"bucket_name"`
}

type AppRabbitMQ struct {
	AuditQueue string `mapstructure:"audit_queue"`
}

type AppConsultation struct {
	ExpiryCronSpec    string `mapstructure:"expiry_cron_spec"`
	StaleAfterInHours int    `mapstructure:"stale_after_in_hours"`
	ExpiryBatchSize   int    `mapstructure:"expiry_batch_size"`
}

// AppIntakeLimit caps how many workflow sessions one patient may start.
type AppIntakeLimit struct {
	PerMinute  int `mapstructure:"per_minute"`
	DailyQuota int `mapstructure:"daily_quota"`
}
