package util

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// keySalt is fixed so the same passphrase always opens the same data.
var keySalt = []byte("homebook/aes-gcm/v1")

const keyIterations = 100_000

// RandomString 生成指定长度的随机字符串（URL 安全，用于密钥、token 等）。
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:n], nil
}

// ----------------- AES-256-GCM -----------------

// Cipher encrypts note fields, audit rows and backups.
// A nil *Cipher or an empty passphrase disables encryption: values pass through.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives a 32 byte key from passphrase with PBKDF2-SHA256.
// The derivation is slow on purpose, so build one Cipher and share it.
func NewCipher(passphrase string) (*Cipher, error) {
	if passphrase == "" {
		return nil, nil
	}
	key := pbkdf2.Key([]byte(passphrase), keySalt, keyIterations, 32, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Enabled reports whether values are actually encrypted.
func (c *Cipher) Enabled() bool {
	return c != nil && c.aead != nil
}

// Encrypt returns nonce+ciphertext.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	if !c.Enabled() {
		return plaintext, nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	ciphertext := c.aead.Seal(nil, nonce, plaintext, nil)
	return append(nonce, ciphertext...), nil
}

// Decrypt expects nonce+ciphertext as produced by Encrypt.
func (c *Cipher) Decrypt(data []byte) ([]byte, error) {
	if !c.Enabled() {
		return data, nil
	}
	ns := c.aead.NonceSize()
	if len(data) < ns {
		return nil, fmt.Errorf("cipher too short")
	}
	nonce, ciphertext := data[:ns], data[ns:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}

// EncryptString 把明文加密为 base64 字符串
func (c *Cipher) EncryptString(plain string) (string, error) {
	if plain == "" || !c.Enabled() {
		return plain, nil
	}
	b, err := c.Encrypt([]byte(plain))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// DecryptString 尝试解密 base64+AES，失败则返回原值
// Rows written before encryption was switched on stay readable that way.
func (c *Cipher) DecryptString(cipherStr string) string {
	if cipherStr == "" || !c.Enabled() {
		return cipherStr
	}
	b, err := base64.StdEncoding.DecodeString(cipherStr)
	if err != nil {
		return cipherStr
	}
	plain, err := c.Decrypt(b)
	if err != nil {
		return cipherStr
	}
	return string(plain)
}
