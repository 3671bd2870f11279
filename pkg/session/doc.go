// Package session keeps Gmail connection sessions: an opaque id handed to the
// browser, the connected address and the encrypted Google refresh token.
//
// Two stores are provided. MemoryStore keeps sessions in process and sweeps
// expired ones periodically. RedisStore persists them through pkg/redis so
// they survive restarts and are shared between replicas.
//
//	cipher, _ := secrets.NewCipher(masterKey, "session-refresh-token")
//	mgr := session.NewManager(session.NewMemoryStore(time.Minute), cipher)
//
//	sess, _ := mgr.Create(ctx, "me@example.com", refreshToken)
//	token, _ := mgr.RefreshToken(sess)
//
// Refresh tokens never leave the manager in plain text except through
// RefreshToken.
package session
