package crypto_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mucalsync/calsync-server/internal/crypto"
)

func TestEncryptDecrypt(t *testing.T) {
	const key = "shared-secret-key"

	t.Run("round trip recovers the plaintext", func(t *testing.T) {
		plaintext := []byte(`{"username":"student1","password":"hunter2"}`)
		encoded, err := crypto.Encrypt(plaintext, key)
		require.NoError(t, err)

		decrypted, err := crypto.Decrypt(encoded, key)
		require.NoError(t, err)
		require.Equal(t, plaintext, decrypted)
	})

	t.Run("each encryption produces a distinct payload", func(t *testing.T) {
		plaintext := []byte("same input")
		first, err := crypto.Encrypt(plaintext, key)
		require.NoError(t, err)
		second, err := crypto.Encrypt(plaintext, key)
		require.NoError(t, err)
		require.NotEqual(t, first, second)
	})

	t.Run("wrong key fails", func(t *testing.T) {
		encoded, err := crypto.Encrypt([]byte("secret payload"), key)
		require.NoError(t, err)

		_, err = crypto.Decrypt(encoded, "a-different-key")
		require.Error(t, err)
	})

	t.Run("tampered ciphertext fails", func(t *testing.T) {
		encoded, err := crypto.Encrypt([]byte("secret payload"), key)
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		raw[len(raw)-1] ^= 0xff
		tampered := base64.StdEncoding.EncodeToString(raw)

		_, err = crypto.Decrypt(tampered, key)
		require.Error(t, err)
	})

	t.Run("invalid base64 fails", func(t *testing.T) {
		_, err := crypto.Decrypt("not base64!!!", key)
		require.Error(t, err)
	})

	t.Run("truncated payload fails", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString([]byte("too short"))
		_, err := crypto.Decrypt(short, key)
		require.Error(t, err)
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		_, err := crypto.Encrypt([]byte("data"), "")
		require.Error(t, err)
		_, err = crypto.Decrypt("abcd", "")
		require.Error(t, err)
	})

	t.Run("empty plaintext is rejected", func(t *testing.T) {
		_, err := crypto.Encrypt(nil, key)
		require.Error(t, err)
	})
}
