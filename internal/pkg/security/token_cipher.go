package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// TokenCipher 对用户的 GitHub access token 做落库加密
// 密钥由会话密钥派生，换密钥会使已存令牌全部失效，用户需重新授权
type TokenCipher struct {
	key [32]byte
}

func NewTokenCipher(secret string) *TokenCipher {
	c := &TokenCipher{}
	c.key = sha256.Sum256([]byte(secret))
	return c
}

// Encrypt 返回 base64(nonce || ciphertext)
func (s *TokenCipher) Encrypt(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key[:])
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt 解出明文 token，密文被篡改或密钥不符时报错
func (s *TokenCipher) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.NewX(s.key[:])
	if err != nil {
		return "", err
	}

	if len(sealed) < aead.NonceSize() {
		return "", errors.New("密文长度不合法")
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
