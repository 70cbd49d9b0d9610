package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestJWTService(t *testing.T) {
	auth, err := jwtService(envMap(nil))
	require.NoError(t, err)
	assert.Nil(t, auth)

	_, err = jwtService(envMap(map[string]string{"JWT_SECRET": "short"}))
	assert.Error(t, err)

	auth, err = jwtService(envMap(map[string]string{"JWT_SECRET": "a-long-enough-test-secret"}))
	require.NoError(t, err)
	require.NotNil(t, auth)

	token, err := auth.GenerateToken("ada@example.com")
	require.NoError(t, err)
	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.GetSubject())
}
