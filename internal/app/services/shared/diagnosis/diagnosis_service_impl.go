package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var (
	diagnosisServiceInstance contracts.DiagnosisService
	onceDiagnosisService     sync.Once
)

const systemPrompt = `You are a triage assistant for a teleconsultation service.
Given a patient's symptom intake, respond with a JSON object with keys:
"text" (short pre-diagnosis), "confidence" (0..1), "severity" (mild|moderate|severe),
"recommendedConsultationType" (chat|audio|video), "investigations" (array of strings),
"treatmentSuggestions" (array of strings). Respond with JSON only.`

// diagnosisService asks the language model for a pre-diagnosis and falls back
// to a local severity-driven diagnosis whenever the model cannot answer.
type diagnosisService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	Log     *zap.Logger
}

func NewDiagnosisService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.DiagnosisService {
	onceDiagnosisService.Do(func() {
		var client *openai.Client
		if internalConfig.Diagnosis.OpenAIAPIKey != "" {
			client = openai.NewClient(internalConfig.Diagnosis.OpenAIAPIKey)
		} else {
			logger.Warn("OPENAI_API_KEY is empty, diagnosis will always use the local fallback")
		}
		diagnosisServiceInstance = newDiagnosisService(
			client,
			internalConfig.Diagnosis.OpenAIModel,
			time.Duration(internalConfig.Diagnosis.TimeoutInSeconds)*time.Second,
			logger,
		)
	})
	return diagnosisServiceInstance
}

func newDiagnosisService(client *openai.Client, model string, timeout time.Duration, logger *zap.Logger) *diagnosisService {
	return &diagnosisService{
		client:  client,
		model:   model,
		timeout: timeout,
		Log:     logger,
	}
}

func (s *diagnosisService) Diagnose(ctx context.Context, intake *models.SymptomIntake) (*models.Diagnosis, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if s.client == nil {
		return FallbackDiagnosis(intake), nil
	}

	diagnosis, err := s.ask(ctx, intake)
	if err != nil {
		s.Log.Warn("diagnosisService.Diagnose using fallback",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDiagnosisSourceKey, constvars.DiagnosisSourceFallback),
			zap.Error(err),
		)
		return FallbackDiagnosis(intake), nil
	}

	s.Log.Info("diagnosisService.Diagnose succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDiagnosisSourceKey, constvars.DiagnosisSourceAI),
	)
	return diagnosis, nil
}

func (s *diagnosisService) ask(ctx context.Context, intake *models.SymptomIntake) (*models.Diagnosis, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	intakeJSON, err := json.Marshal(intake)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(intakeJSON)},
		},
		Temperature:    0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("model returned no choices")
	}

	diagnosis := new(models.Diagnosis)
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), diagnosis); err != nil {
		return nil, fmt.Errorf("model returned malformed diagnosis: %w", err)
	}

	diagnosis.Source = constvars.DiagnosisSourceAI
	if !isSeverity(diagnosis.Severity) {
		diagnosis.Severity = intake.Severity
	}
	if !isConsultationType(diagnosis.RecommendedConsultationType) {
		diagnosis.RecommendedConsultationType = RecommendConsultationType(diagnosis.Severity)
	}
	if strings.TrimSpace(diagnosis.Text) == "" {
		return nil, errors.New("model returned an empty diagnosis")
	}
	if diagnosis.Confidence < 0 || diagnosis.Confidence > 1 {
		diagnosis.Confidence = 0
	}
	return diagnosis, nil
}

// RecommendConsultationType maps severity to the consultation type offered first.
func RecommendConsultationType(severity string) string {
	switch severity {
	case constvars.SeveritySevere:
		return constvars.ConsultationTypeVideo
	case constvars.SeverityModerate:
		return constvars.ConsultationTypeAudio
	default:
		return constvars.ConsultationTypeChat
	}
}

// FallbackDiagnosis is returned when the model is unreachable or misbehaves.
func FallbackDiagnosis(intake *models.SymptomIntake) *models.Diagnosis {
	return &models.Diagnosis{
		Text:                        fmt.Sprintf("Automated assessment unavailable. Reported %s symptoms: %s.", intake.Severity, strings.Join(intake.Symptoms, ", ")),
		Confidence:                  0,
		Severity:                    intake.Severity,
		RecommendedConsultationType: RecommendConsultationType(intake.Severity),
		Investigations:              []string{},
		TreatmentSuggestions:        []string{"Consult a doctor for a full assessment"},
		Source:                      constvars.DiagnosisSourceFallback,
	}
}

func isSeverity(value string) bool {
	return value == constvars.SeverityMild || value == constvars.SeverityModerate || value == constvars.SeveritySevere
}

func isConsultationType(value string) bool {
	return value == constvars.ConsultationTypeChat || value == constvars.ConsultationTypeAudio || value == constvars.ConsultationTypeVideo
}
