package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// AES-256-CBC wrap for credentials in transit between the browser and the
// login proxy. The payload layout is base64(salt || iv || ciphertext).
const (
	saltSize   = 16
	iterations = 10000
	keySize    = 32
)

func deriveKey(key string, salt []byte) []byte {
	return pbkdf2.Key([]byte(key), salt, iterations, keySize, sha256.New)
}

// Encrypt encrypts plaintext with a key derived from the shared secret and
// returns a base64-encoded payload.
func Encrypt(plaintext []byte, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("encryption key is required")
	}
	if len(plaintext) == 0 {
		return "", fmt.Errorf("plaintext cannot be empty")
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(key, salt))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	payload := append(append(salt, iv...), ciphertext...)
	return base64.StdEncoding.EncodeToString(payload), nil
}

// Decrypt reverses Encrypt. A wrong key or tampered payload yields an error,
// never silently-garbled plaintext.
func Decrypt(encoded, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("encryption key is required")
	}

	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 encoding: %w", err)
	}
	if len(payload) < saltSize+aes.BlockSize || (len(payload)-saltSize)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext too short")
	}

	salt := payload[:saltSize]
	iv := payload[saltSize : saltSize+aes.BlockSize]
	ciphertext := payload[saltSize+aes.BlockSize:]
	if len(ciphertext) == 0 {
		return nil, fmt.Errorf("ciphertext too short")
	}

	block, err := aes.NewCipher(deriveKey(key, salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-padding], nil
}
