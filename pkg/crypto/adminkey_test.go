package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckAdminKey(t *testing.T) {
	hash, err := HashAdminKey("super-secret-operator-key")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	require.True(t, CheckAdminKey("super-secret-operator-key", hash))
	require.False(t, CheckAdminKey("wrong-key", hash))
	require.False(t, CheckAdminKey("super-secret-operator-key", "not-a-bcrypt-hash"))
}

func TestHashAdminKey_BcryptError(t *testing.T) {
	orig := bcryptGenerateFromPassword
	bcryptGenerateFromPassword = func([]byte, int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	defer func() { bcryptGenerateFromPassword = orig }()

	_, err := HashAdminKey("key")
	require.Error(t, err)
}

func TestGenerateRandomToken(t *testing.T) {
	token, err := GenerateRandomToken(16)
	require.NoError(t, err)
	require.Len(t, token, 32)

	other, err := GenerateRandomToken(16)
	require.NoError(t, err)
	require.NotEqual(t, token, other)
}

func TestGenerateRandomToken_ReadError(t *testing.T) {
	orig := randomRead
	randomRead = func([]byte) (int, error) { return 0, errors.New("entropy drained") }
	defer func() { randomRead = orig }()

	_, err := GenerateRandomToken(16)
	require.Error(t, err)
}
