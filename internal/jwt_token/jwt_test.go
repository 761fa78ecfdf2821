package jwttoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "homeward/pkg/domain"
	dErrors "homeward/pkg/domain-errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-signing-key", "homeward", "homeward-api")
	userID := id.UserID(uuid.New())

	token, err := svc.GenerateAccessToken(userID, id.RoleShelter, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "shelter", claims.Role)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-signing-key", "homeward", "homeward-api")

	token, err := svc.GenerateAccessToken(id.UserID(uuid.New()), id.RoleAdopter, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsWrongKey(t *testing.T) {
	issuer := NewJWTService("key-one", "homeward", "homeward-api")
	verifier := NewJWTService("key-two", "homeward", "homeward-api")

	token, err := issuer.GenerateAccessToken(id.UserID(uuid.New()), id.RoleAdopter, time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-signing-key", "homeward", "homeward-api")

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
