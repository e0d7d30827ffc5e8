package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/scrypt"
)

var errCiphertextTooShort = errors.New("ciphertext too short")

// passwordKey derives a 32-byte AES key from the configured secret.
func passwordKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("password secret not configured")
	}
	return scrypt.Key([]byte(secret), []byte("hangout-password"), 1<<15, 8, 1, 32)
}

// EncryptPassword seals a hangout access password and returns a base64
// ciphertext. Plaintext is never stored.
func EncryptPassword(secret, plaintext string) (string, error) {
	key, err := passwordKey(secret)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptPassword opens a sealed access password.
func DecryptPassword(secret, cryptoText string) (string, error) {
	key, err := passwordKey(secret)
	if err != nil {
		return "", err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(cryptoText)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", errCiphertextTooShort
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
