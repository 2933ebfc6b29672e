package consultations

import (
	"strings"
	"testing"
	"time"

	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/app/services/shared/encryption"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConsultation() *models.Consultation {
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	c := models.NewDraftConsultation("c-1", "patient-1", "patient-1", at)
	c.ClinicalSessionID = "clinical-1"
	c.SessionID = "session-1"
	c.ConsultationType = "video"
	c.Medical = models.MedicalRecord{
		ChiefComplaint:     "persistent migraine",
		DetailedSymptoms:   []string{"headache", "nausea"},
		MedicalHistory:     "asthma",
		Allergies:          []string{"penicillin"},
		CurrentMedications: []string{"salbutamol"},
		PreDiagnosis:       models.Diagnosis{Text: "likely migraine", Severity: "severe", Source: "ai"},
	}
	c.DoctorDiagnosis = "tension headache"
	return c
}

func TestFieldCodec_EncryptsMedicalFields(t *testing.T) {
	cipher, err := encryption.NewEphemeralFieldCipher()
	require.NoError(t, err)
	codec := fieldCodec{cipher: cipher}

	consultation := sampleConsultation()
	doc, err := codec.toDocument(consultation)
	require.NoError(t, err)

	for _, sealed := range []string{
		doc.Medical.ChiefComplaint,
		doc.Medical.DetailedSymptoms,
		doc.Medical.MedicalHistory,
		doc.Medical.Allergies,
		doc.Medical.CurrentMedications,
		doc.Medical.PreDiagnosis,
		doc.DoctorDiagnosis,
	} {
		assert.NotEmpty(t, sealed)
		assert.False(t, strings.Contains(sealed, "migraine"))
		assert.False(t, strings.Contains(sealed, "penicillin"))
	}
	assert.Equal(t, "patient-1", doc.PatientID)
	assert.Equal(t, "clinical-1", doc.ClinicalSessionID)

	restored, err := codec.fromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, consultation, restored)
}

func TestFieldCodec_OptionalFieldsStayEmpty(t *testing.T) {
	cipher, err := encryption.NewEphemeralFieldCipher()
	require.NoError(t, err)
	codec := fieldCodec{cipher: cipher}

	consultation := sampleConsultation()
	consultation.Medical.MedicalHistory = ""
	consultation.Medical.Allergies = nil
	consultation.Medical.CurrentMedications = nil
	consultation.DoctorDiagnosis = ""

	doc, err := codec.toDocument(consultation)
	require.NoError(t, err)
	assert.Empty(t, doc.Medical.MedicalHistory)
	assert.Empty(t, doc.Medical.Allergies)
	assert.Empty(t, doc.DoctorDiagnosis)

	restored, err := codec.fromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, consultation, restored)
}

func TestFieldCodec_RejectsForeignKey(t *testing.T) {
	writer, err := encryption.NewEphemeralFieldCipher()
	require.NoError(t, err)
	reader, err := encryption.NewEphemeralFieldCipher()
	require.NoError(t, err)

	doc, err := fieldCodec{cipher: writer}.toDocument(sampleConsultation())
	require.NoError(t, err)

	_, err = fieldCodec{cipher: reader}.fromDocument(doc)
	require.Error(t, err)
}

func TestStoredTime_TruncatesToMillis(t *testing.T) {
	in := time.Date(2026, 3, 10, 9, 0, 0, 123456789, time.FixedZone("IST", 19800))
	out := storedTime(in)
	assert.Equal(t, time.UTC, out.Location())
	assert.Equal(t, 123000000, out.Nanosecond())
	assert.True(t, in.Truncate(time.Millisecond).Equal(out))
}
