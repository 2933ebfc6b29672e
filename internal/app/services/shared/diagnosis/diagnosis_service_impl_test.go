package diagnosis

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, content string, status int) *diagnosisService {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		body, _ := json.Marshal(map[string]interface{}{
			"id": "chatcmpl-1",
			"choices": []map[string]interface{}{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL
	return newDiagnosisService(openai.NewClientWithConfig(cfg), "gpt-4o-mini", 5*time.Second, zap.NewNop())
}

func severeIntake() *models.SymptomIntake {
	return &models.SymptomIntake{Symptoms: []string{"chest pain", "shortness of breath"}, Severity: constvars.SeveritySevere, Age: 34, Gender: "male"}
}

func TestDiagnose_UsesModelAnswer(t *testing.T) {
	svc := newTestService(t, `{"text":"Possible cardiac event","confidence":0.7,"severity":"severe","recommendedConsultationType":"video","investigations":["ECG"],"treatmentSuggestions":["Seek urgent care"]}`, http.StatusOK)

	diagnosis, err := svc.Diagnose(context.Background(), severeIntake())
	require.NoError(t, err)
	assert.Equal(t, constvars.DiagnosisSourceAI, diagnosis.Source)
	assert.Equal(t, constvars.ConsultationTypeVideo, diagnosis.RecommendedConsultationType)
	assert.Equal(t, []string{"ECG"}, diagnosis.Investigations)
}

func TestDiagnose_FillsMissingRecommendation(t *testing.T) {
	svc := newTestService(t, `{"text":"Viral fever","confidence":0.6,"severity":"moderate"}`, http.StatusOK)

	diagnosis, err := svc.Diagnose(context.Background(), severeIntake())
	require.NoError(t, err)
	assert.Equal(t, constvars.ConsultationTypeAudio, diagnosis.RecommendedConsultationType)
}

func TestDiagnose_FallsBackOnError(t *testing.T) {
	tests := []struct {
		name    string
		content string
		status  int
	}{
		{name: "server error", status: http.StatusInternalServerError},
		{name: "malformed json", content: "not json", status: http.StatusOK},
		{name: "empty text", content: `{"text":""}`, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.content, tt.status)
			diagnosis, err := svc.Diagnose(context.Background(), severeIntake())
			require.NoError(t, err)
			assert.Equal(t, constvars.DiagnosisSourceFallback, diagnosis.Source)
			assert.Equal(t, constvars.ConsultationTypeVideo, diagnosis.RecommendedConsultationType)
		})
	}
}

func TestDiagnose_WithoutClient(t *testing.T) {
	svc := newDiagnosisService(nil, "", time.Second, zap.NewNop())
	diagnosis, err := svc.Diagnose(context.Background(), &models.SymptomIntake{Symptoms: []string{"rash"}, Severity: constvars.SeverityMild})
	require.NoError(t, err)
	assert.Equal(t, constvars.ConsultationTypeChat, diagnosis.RecommendedConsultationType)
}

func TestRecommendConsultationType(t *testing.T) {
	for severity, want := range map[string]string{
		constvars.SeveritySevere:   constvars.ConsultationTypeVideo,
		constvars.SeverityModerate: constvars.ConsultationTypeAudio,
		constvars.SeverityMild:     constvars.ConsultationTypeChat,
	} {
		assert.Equal(t, want, RecommendConsultationType(severity), fmt.Sprintf("severity %s", severity))
	}
}
