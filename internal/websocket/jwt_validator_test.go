package websocket

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// mockOwnerLookup is a test double for OwnerLookup
type mockOwnerLookup struct {
	ownerID uuid.UUID
	err     error
}

func (m *mockOwnerLookup) GetOwnerIDByAuth0ID(ctx context.Context, auth0ID string) (uuid.UUID, error) {
	return m.ownerID, m.err
}

func TestOwnerLookup_Interface(t *testing.T) {
	var _ OwnerLookup = (*mockOwnerLookup)(nil)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "unknown user", ErrUnknownUser.Error())
	assert.Equal(t, "invalid token", ErrInvalidToken.Error())
}

func TestCustomClaims_Validate(t *testing.T) {
	claims := &CustomClaims{}
	err := claims.Validate(context.Background())
	assert.NoError(t, err, "CustomClaims.Validate should return nil")
}

func TestNewAuth0JWTValidator_Success(t *testing.T) {
	lookup := &mockOwnerLookup{ownerID: uuid.New()}

	validator, err := NewAuth0JWTValidator("test.auth0.com", "https://api.ledger.test", lookup)
	assert.NoError(t, err)
	assert.NotNil(t, validator)
	assert.NotNil(t, validator.validator)
	assert.Equal(t, lookup, validator.ownerLookup)
}

func TestAuth0JWTValidator_ValidateToken_InvalidJWT(t *testing.T) {
	lookup := &mockOwnerLookup{ownerID: uuid.New()}

	validator, err := NewAuth0JWTValidator("test.auth0.com", "https://api.ledger.test", lookup)
	assert.NoError(t, err)

	// Malformed tokens fail before any key fetch
	ownerID, err := validator.ValidateToken(context.Background(), "invalid-token")
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, ownerID)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
