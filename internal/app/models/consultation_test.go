package models

import (
	"testing"
	"time"

	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsultation_MainLine(t *testing.T) {
	now := time.Now()
	c := NewDraftConsultation("c-1", "p-1", "system", now)

	for _, status := range []ConsultationStatus{
		ConsultationPaymentPending,
		ConsultationPaymentConfirmed,
		ConsultationDoctorAssigned,
		ConsultationInProgress,
		ConsultationCompleted,
	} {
		require.NoError(t, c.Transition(status, "doctor-1", "", now))
	}

	assert.Len(t, c.StatusHistory, 6)
	assert.False(t, c.IsActive)
	assert.NotNil(t, c.ClosedAt)
}

func TestConsultation_SkippingIsRejected(t *testing.T) {
	c := NewDraftConsultation("c-1", "p-1", "system", time.Now())

	err := c.Transition(ConsultationDoctorAssigned, "system", "", time.Now())
	assert.True(t, exceptions.HasCode(err, constvars.ErrCodeInvalidStatusTransition))
	assert.Equal(t, ConsultationDraft, c.Status)
	assert.Len(t, c.StatusHistory, 1)
}

func TestConsultation_SideBranchesFromAnyOpenStatus(t *testing.T) {
	open := []ConsultationStatus{
		ConsultationDraft, ConsultationPaymentPending, ConsultationPaymentConfirmed,
		ConsultationDoctorAssigned, ConsultationInProgress,
	}
	for _, from := range open {
		for _, to := range []ConsultationStatus{ConsultationCancelled, ConsultationExpired, ConsultationRefunded} {
			assert.NoError(t, CheckTransition("c-1", from, to), "%s -> %s", from, to)
		}
	}
}

func TestConsultation_TerminalStatusesAreClosed(t *testing.T) {
	for _, from := range []ConsultationStatus{ConsultationCompleted, ConsultationCancelled, ConsultationRefunded, ConsultationExpired} {
		err := CheckTransition("c-1", from, ConsultationInProgress)
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeConsultationClosed), from)
	}
}

func TestConsultation_UnknownStatus(t *testing.T) {
	err := CheckTransition("c-1", ConsultationDraft, ConsultationStatus("ARCHIVED"))
	assert.True(t, exceptions.HasCode(err, constvars.ErrCodeInvalidStatusTransition))
}
