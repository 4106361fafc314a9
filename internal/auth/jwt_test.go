package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	user := User{ID: uuid.New(), Email: "admin@villasol.do", Role: RoleAdmin}

	token, err := GenerateToken(user, "secret", time.Hour)
	require.NoError(t, err)

	actor, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	require.Equal(t, user.ID, actor.UserID)
	require.Equal(t, user.Email, actor.Email)
	require.True(t, actor.IsAdmin())
}

func TestValidateTokenWrongSecret(t *testing.T) {
	user := User{ID: uuid.New(), Email: "staff@villasol.do", Role: RoleStaff}

	token, err := GenerateToken(user, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	require.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	user := User{ID: uuid.New(), Email: "staff@villasol.do", Role: RoleStaff}

	token, err := GenerateToken(user, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	require.Error(t, err)
}
