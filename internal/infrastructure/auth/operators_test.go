package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/returnhub/backend/internal/infrastructure/config"
)

func testRegistry(t *testing.T) *OperatorRegistry {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hub-pass-1"), bcrypt.MinCost)
	require.NoError(t, err)

	return NewOperatorRegistry(config.AuthConfig{
		Operators: map[string]string{"somchai": string(hash)},
		Roles:     map[string]string{"somchai": "supervisor"},
	})
}

func TestOperatorRegistryAuthenticate(t *testing.T) {
	registry := testRegistry(t)

	t.Run("valid credentials", func(t *testing.T) {
		op, err := registry.Authenticate("somchai", "hub-pass-1")
		require.NoError(t, err)
		assert.Equal(t, "somchai", op.Username)
		assert.Equal(t, "supervisor", op.Role)
		assert.NotEqual(t, op.ID.String(), "00000000-0000-0000-0000-000000000000")
	})

	t.Run("operator id is stable across logins", func(t *testing.T) {
		first, err := registry.Authenticate("somchai", "hub-pass-1")
		require.NoError(t, err)
		second, err := registry.Authenticate("somchai", "hub-pass-1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := registry.Authenticate("somchai", "wrong")
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := registry.Authenticate("nobody", "hub-pass-1")
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("empty registry locks login", func(t *testing.T) {
		locked := NewOperatorRegistry(config.AuthConfig{})
		_, err := locked.Authenticate("somchai", "hub-pass-1")
		assert.ErrorIs(t, err, ErrBadCredentials)
	})
}

func TestOperatorRegistryDefaultRole(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	registry := NewOperatorRegistry(config.AuthConfig{
		Operators: map[string]string{"malee": string(hash)},
	})

	op, err := registry.Authenticate("malee", "pw")
	require.NoError(t, err)
	assert.Equal(t, DefaultOperatorRole, op.Role)
}
