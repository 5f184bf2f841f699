package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = JWTConfig{
	SecretKey: "unit-test-secret",
	Issuer:    "personawriter-backend",
	Audience:  []string{"personawriter-api"},
}

func TestValidateTokenRoundTrip(t *testing.T) {
	generator, err := NewJWTGenerator(testConfig, time.Hour)
	require.NoError(t, err)
	validator, err := NewJWTValidator(testConfig)
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-123", "ada@example.com")
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestValidateTokenExpired(t *testing.T) {
	generator, err := NewJWTGenerator(testConfig, time.Nanosecond)
	require.NoError(t, err)
	validator, err := NewJWTValidator(testConfig)
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-123", "")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	generator, err := NewJWTGenerator(JWTConfig{
		SecretKey: "a different secret",
		Issuer:    testConfig.Issuer,
		Audience:  testConfig.Audience,
	}, time.Hour)
	require.NoError(t, err)
	validator, err := NewJWTValidator(testConfig)
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-123", "")
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	generator, err := NewJWTGenerator(JWTConfig{
		SecretKey: testConfig.SecretKey,
		Issuer:    "someone-else",
		Audience:  testConfig.Audience,
	}, time.Hour)
	require.NoError(t, err)
	validator, err := NewJWTValidator(testConfig)
	require.NoError(t, err)

	token, err := generator.GenerateToken("user-123", "")
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestValidateTokenMissing(t *testing.T) {
	validator, err := NewJWTValidator(testConfig)
	require.NoError(t, err)

	_, err = validator.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
