package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// formatV1 prefixes every sealed value: version || nonce || ciphertext || tag.
const formatV1 byte = 1

// Cipher seals short secrets such as OAuth refresh tokens with AES-256-GCM.
// The key is derived from the master key and a purpose label, and the label is
// also authenticated, so a value sealed for one purpose never opens under
// another. Safe for concurrent use.
type Cipher struct {
	aead    cipher.AEAD
	purpose []byte
}

func NewCipher(masterKey []byte, purpose string) (*Cipher, error) {
	switch {
	case len(masterKey) != KeySize:
		return nil, ErrInvalidKey
	case purpose == "":
		return nil, ErrEmptyPurpose
	}

	key, err := deriveKey(masterKey, purpose)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	return &Cipher{aead: aead, purpose: []byte(purpose)}, nil
}

func (c *Cipher) EncryptBytes(plaintext []byte) ([]byte, error) {
	ns := c.aead.NonceSize()
	out := make([]byte, 1+ns, 1+ns+len(plaintext)+c.aead.Overhead())
	out[0] = formatV1
	nonce := out[1:]
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	return c.aead.Seal(out, nonce, plaintext, c.purpose), nil
}

func (c *Cipher) DecryptBytes(sealed []byte) ([]byte, error) {
	ns := c.aead.NonceSize()
	if len(sealed) < 1+ns+c.aead.Overhead() {
		return nil, ErrInvalidCiphertext
	}
	if sealed[0] != formatV1 {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidCiphertext, sealed[0])
	}

	nonce, body := sealed[1:1+ns], sealed[1+ns:]
	plaintext, err := c.aead.Open(nil, nonce, body, c.purpose)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// EncryptString seals plaintext and encodes it as unpadded URL-safe base64.
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	sealed, err := c.EncryptBytes([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *Cipher) DecryptString(encoded string) (string, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.Join(ErrInvalidCiphertext, err)
	}
	plaintext, err := c.DecryptBytes(sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
