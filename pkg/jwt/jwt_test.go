package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Generate_And_Validate(t *testing.T) {
	req := require.New(t)
	m := NewManager("test-secret", time.Hour, "portal")

	token, exp, err := m.Generate("u1", "u1@example.com", "Alice", "user")
	req.NoError(err)
	req.NotEmpty(token)
	req.Greater(exp, time.Now().Unix())

	claims, err := m.Validate(token)
	req.NoError(err)
	req.Equal("u1", claims.UserID)
	req.Equal("u1@example.com", claims.Email)
	req.Equal("Alice", claims.Name)
	req.Equal("user", claims.Role)
}

func Test_Validate_WrongSecret(t *testing.T) {
	req := require.New(t)
	token, _, err := NewManager("secret-a", time.Hour, "portal").Generate("u1", "", "", "user")
	req.NoError(err)

	_, err = NewManager("secret-b", time.Hour, "portal").Validate(token)
	req.ErrorIs(err, ErrInvalidToken)
}

func Test_Validate_Expired(t *testing.T) {
	req := require.New(t)
	m := NewManager("test-secret", -time.Minute, "portal")

	token, _, err := m.Generate("u1", "", "", "user")
	req.NoError(err)

	_, err = m.Validate(token)
	req.ErrorIs(err, ErrExpiredToken)
}
