// Package auth connects a Google account with permission to send mail.
//
// GoogleProvider drives the authorization code flow with offline access:
//
//	provider, err := auth.NewGoogleProvider(cfg, auth.NewMemoryStateStore())
//	url, _ := provider.AuthURL(ctx)          // redirect the browser here
//	id, err := provider.Exchange(ctx, code, state)
//	token, err := provider.AccessToken(ctx, id.RefreshToken)
//
// Every AuthURL call issues a random state value kept in a StateStore.
// Exchange redeems it exactly once, so a callback cannot be replayed or forged.
// MemoryStateStore suits a single instance; RedisStateStore shares state
// between replicas.
//
// The consent prompt is always forced because Google only returns a refresh
// token on consent. Callers still have to cope with an empty
// Identity.RefreshToken, for example by reusing one stored earlier.
package auth
