// Package gmail builds MIME messages and sends them through the Gmail API on
// behalf of an OAuth-connected account.
//
//	raw, err := gmail.Build(gmail.Message{From: from, To: to, Subject: s, HTML: body})
//	id, err := sender.Send(ctx, oauth2.StaticTokenSource(token), raw)
//
// Header values are collapsed to a single line before encoding, which blocks
// header injection through user-supplied subjects or addresses.
package gmail
