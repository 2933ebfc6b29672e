package utils

import (
	"testing"
	"time"

	"teleconsult-service/internal/pkg/constvars"
	"teleconsult-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("doctor-7", constvars.RoleDoctor, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "doctor-7", claims.Subject)
	assert.Equal(t, constvars.RoleDoctor, claims.Role)
}

func TestAccessToken_Rejections(t *testing.T) {
	valid, err := GenerateAccessToken("patient-1", constvars.RolePatient, "secret", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateAccessToken("patient-1", constvars.RolePatient, "secret", -time.Minute)
	require.NoError(t, err)
	roleless, err := GenerateAccessToken("patient-1", "", "secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "wrong secret", token: valid, secret: "other"},
		{name: "expired", token: expired, secret: "secret"},
		{name: "missing role", token: roleless, secret: "secret"},
		{name: "garbage", token: "not-a-jwt", secret: "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccessToken(tt.token, tt.secret)
			require.Error(t, err)
			var customErr *exceptions.CustomError
			require.ErrorAs(t, err, &customErr)
			assert.Equal(t, constvars.StatusUnauthorized, customErr.StatusCode)
		})
	}
}
