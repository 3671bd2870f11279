// Package secrets encrypts small secrets at rest, such as OAuth refresh tokens
// kept in session storage.
//
// A single master key (32 bytes, base64 encoded in configuration) is expanded
// with HKDF-SHA-256 into a per-purpose AES-256 key, and data is sealed with
// AES-GCM. The random nonce is prepended to the ciphertext so each value is
// self-contained.
//
//	key, err := secrets.ParseKey(os.Getenv("TOKEN_ENCRYPTION_KEY"))
//	if err != nil {
//	    return err
//	}
//	c, err := secrets.NewCipher(key, "oauth-refresh-token")
//	sealed, err := c.EncryptString(refreshToken)
//	plain, err := c.DecryptString(sealed)
//
// Ciphers created with different purpose labels cannot read each other's data
// even when they share the master key.
//
// # Error Handling
//
// Tampered or truncated input fails with ErrDecryptionFailed or
// ErrInvalidCiphertext. Configuration problems fail with ErrInvalidKey.
package secrets
