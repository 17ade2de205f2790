package util

import (
	"strings"
	"testing"
)

// ============ 随机字符串测试 ============

func TestRandomString(t *testing.T) {
	str, err := RandomString(32)
	if err != nil {
		t.Fatalf("RandomString(32) error = %v", err)
	}
	if len(str) != 32 {
		t.Errorf("len = %d, want 32", len(str))
	}

	str2, _ := RandomString(32)
	if str == str2 {
		t.Error("two calls returned the same string")
	}

	if _, err := RandomString(0); err == nil {
		t.Error("RandomString(0) error = nil, want error")
	}
	if _, err := RandomString(-5); err == nil {
		t.Error("RandomString(-5) error = nil, want error")
	}
}

// ============ AES 加密测试 ============

func TestCipher_RoundTrip(t *testing.T) {
	c, err := NewCipher("test-encryption-key")
	if err != nil {
		t.Fatalf("NewCipher() error = %v", err)
	}

	testCases := []string{
		"Hello World",
		"中文测试",
		"",
		"Special!@#$%^&*()",
		strings.Repeat("A", 1000),
	}

	for _, plaintext := range testCases {
		encrypted, err := c.Encrypt([]byte(plaintext))
		if err != nil {
			t.Fatalf("Encrypt(%q) error = %v", plaintext, err)
		}
		decrypted, err := c.Decrypt(encrypted)
		if err != nil {
			t.Fatalf("Decrypt(%q) error = %v", plaintext, err)
		}
		if string(decrypted) != plaintext {
			t.Errorf("round trip = %q, want %q", decrypted, plaintext)
		}
	}
}

func TestCipher_WrongKey(t *testing.T) {
	right, _ := NewCipher("correct-key")
	wrong, _ := NewCipher("wrong-key")

	encrypted, _ := right.Encrypt([]byte("Data"))
	if _, err := wrong.Decrypt(encrypted); err == nil {
		t.Error("Decrypt with wrong key error = nil, want error")
	}
}

func TestCipher_InvalidData(t *testing.T) {
	c, _ := NewCipher("test-key")

	if _, err := c.Decrypt([]byte{1, 2, 3}); err == nil {
		t.Error("Decrypt(short) error = nil, want error")
	}
	if _, err := c.Decrypt([]byte{}); err == nil {
		t.Error("Decrypt(empty) error = nil, want error")
	}
}

func TestCipher_Disabled(t *testing.T) {
	c, err := NewCipher("")
	if err != nil {
		t.Fatalf("NewCipher(\"\") error = %v", err)
	}
	if c.Enabled() {
		t.Fatal("empty passphrase should disable encryption")
	}

	enc, err := c.EncryptString("plain")
	if err != nil || enc != "plain" {
		t.Errorf("EncryptString = %q, %v; want passthrough", enc, err)
	}
	if got := c.DecryptString("plain"); got != "plain" {
		t.Errorf("DecryptString = %q, want passthrough", got)
	}
}

func TestCipher_Strings(t *testing.T) {
	c, _ := NewCipher("field-key")

	enc, err := c.EncryptString("remember the milk")
	if err != nil {
		t.Fatalf("EncryptString error = %v", err)
	}
	if enc == "remember the milk" {
		t.Fatal("EncryptString returned plaintext")
	}
	if got := c.DecryptString(enc); got != "remember the milk" {
		t.Errorf("DecryptString = %q", got)
	}

	// legacy plaintext rows are returned as-is
	if got := c.DecryptString("not encrypted"); got != "not encrypted" {
		t.Errorf("DecryptString(legacy) = %q", got)
	}
}

func BenchmarkCipherEncrypt(b *testing.B) {
	c, _ := NewCipher("bench-key")
	data := []byte("Benchmark data")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Encrypt(data)
	}
}
