package consultations

import (
	"time"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
)

// consultationDocument is the stored shape of a consultation. Medical fields
// hold ciphertext produced by the field cipher.
type consultationDocument struct {
	ConsultationID    string                    `bson:"_id"`
	PatientID         string                    `bson:"patientId"`
	DoctorID          string                    `bson:"doctorId,omitempty"`
	SessionID         string                    `bson:"sessionId"`
	ClinicalSessionID string                    `bson:"clinicalSessionId"`
	ConsultationType  string                    `bson:"consultationType"`
	Status            models.ConsultationStatus `bson:"status"`
	StatusHistory     []models.StatusChange     `bson:"statusHistory"`
	PaymentInfo       models.PaymentInfo        `bson:"paymentInfo"`
	IsActive          bool                      `bson:"isActive"`
	Medical           encryptedMedicalRecord    `bson:"medical"`
	DoctorDiagnosis   string                    `bson:"diagnosis,omitempty"`
	Prescriptions     []models.Prescription     `bson:"prescriptions,omitempty"`
	IntakeArchiveKey  string                    `bson:"intakeArchiveKey,omitempty"`
	CreatedAt         time.Time                 `bson:"createdAt"`
	UpdatedAt         time.Time                 `bson:"updatedAt"`
	ClosedAt          *time.Time                `bson:"closedAt,omitempty"`
}

type encryptedMedicalRecord struct {
	ChiefComplaint     string `bson:"chiefComplaint"`
	DetailedSymptoms   string `bson:"detailedSymptoms"`
	MedicalHistory     string `bson:"medicalHistory,omitempty"`
	Allergies          string `bson:"allergies,omitempty"`
	CurrentMedications string `bson:"currentMedications,omitempty"`
	PreDiagnosis       string `bson:"preDiagnosis"`
}

type fieldCodec struct {
	cipher contracts.FieldCipher
}

func (c fieldCodec) seal(value interface{}) (string, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return "", exceptions.ErrCannotMarshalJSON(err)
	}
	return c.cipher.Encrypt(plaintext)
}

func (c fieldCodec) open(ciphertext string, target interface{}) error {
	if ciphertext == "" {
		return nil
	}
	plaintext, err := c.cipher.Decrypt(ciphertext)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(plaintext, target); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}

func (c fieldCodec) toDocument(consultation *models.Consultation) (*consultationDocument, error) {
	medical := consultation.Medical
	sealed := encryptedMedicalRecord{}

	var err error
	if sealed.ChiefComplaint, err = c.seal(medical.ChiefComplaint); err != nil {
		return nil, err
	}
	if sealed.DetailedSymptoms, err = c.seal(medical.DetailedSymptoms); err != nil {
		return nil, err
	}
	if medical.MedicalHistory != "" {
		if sealed.MedicalHistory, err = c.seal(medical.MedicalHistory); err != nil {
			return nil, err
		}
	}
	if len(medical.Allergies) > 0 {
		if sealed.Allergies, err = c.seal(medical.Allergies); err != nil {
			return nil, err
		}
	}
	if len(medical.CurrentMedications) > 0 {
		if sealed.CurrentMedications, err = c.seal(medical.CurrentMedications); err != nil {
			return nil, err
		}
	}
	if sealed.PreDiagnosis, err = c.seal(medical.PreDiagnosis); err != nil {
		return nil, err
	}

	doctorDiagnosis := ""
	if consultation.DoctorDiagnosis != "" {
		if doctorDiagnosis, err = c.seal(consultation.DoctorDiagnosis); err != nil {
			return nil, err
		}
	}

	return &consultationDocument{
		ConsultationID:    consultation.ConsultationID,
		PatientID:         consultation.PatientID,
		DoctorID:          consultation.DoctorID,
		SessionID:         consultation.SessionID,
		ClinicalSessionID: consultation.ClinicalSessionID,
		ConsultationType:  consultation.ConsultationType,
		Status:            consultation.Status,
		StatusHistory:     consultation.StatusHistory,
		PaymentInfo:       consultation.PaymentInfo,
		IsActive:          consultation.IsActive,
		Medical:           sealed,
		DoctorDiagnosis:   doctorDiagnosis,
		Prescriptions:     consultation.Prescriptions,
		IntakeArchiveKey:  consultation.IntakeArchiveKey,
		CreatedAt:         consultation.CreatedAt,
		UpdatedAt:         consultation.UpdatedAt,
		ClosedAt:          consultation.ClosedAt,
	}, nil
}

func (c fieldCodec) fromDocument(doc *consultationDocument) (*models.Consultation, error) {
	consultation := &models.Consultation{
		ConsultationID:    doc.ConsultationID,
		PatientID:         doc.PatientID,
		DoctorID:          doc.DoctorID,
		SessionID:         doc.SessionID,
		ClinicalSessionID: doc.ClinicalSessionID,
		ConsultationType:  doc.ConsultationType,
		Status:            doc.Status,
		StatusHistory:     doc.StatusHistory,
		PaymentInfo:       doc.PaymentInfo,
		IsActive:          doc.IsActive,
		Prescriptions:     doc.Prescriptions,
		IntakeArchiveKey:  doc.IntakeArchiveKey,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
		ClosedAt:          doc.ClosedAt,
	}

	medical := &consultation.Medical
	fields := []struct {
		ciphertext string
		target     interface{}
	}{
		{doc.Medical.ChiefComplaint, &medical.ChiefComplaint},
		{doc.Medical.DetailedSymptoms, &medical.DetailedSymptoms},
		{doc.Medical.MedicalHistory, &medical.MedicalHistory},
		{doc.Medical.Allergies, &medical.Allergies},
		{doc.Medical.CurrentMedications, &medical.CurrentMedications},
		{doc.Medical.PreDiagnosis, &medical.PreDiagnosis},
		{doc.DoctorDiagnosis, &consultation.DoctorDiagnosis},
	}
	for _, field := range fields {
		if err := c.open(field.ciphertext, field.target); err != nil {
			return nil, err
		}
	}
	return consultation, nil
}
