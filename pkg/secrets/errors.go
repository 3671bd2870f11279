package secrets

import "errors"

var (
	// ErrInvalidKey means the master key is not 32 bytes after decoding.
	ErrInvalidKey   = errors.New("secrets: master key must be 32 bytes")
	ErrEmptyPurpose = errors.New("secrets: purpose is required")

	ErrEncryptionFailed    = errors.New("secrets: seal failed")
	ErrDecryptionFailed    = errors.New("secrets: open failed")
	ErrInvalidCiphertext   = errors.New("secrets: malformed ciphertext")
	ErrKeyDerivationFailed = errors.New("secrets: key derivation failed")
)
