// Package mailer connects Gmail accounts and sends HTML email through them.
//
// A connection is a session holding the account address and its sealed
// refresh token. Send resolves the session, refreshes an access token, sends
// through the Gmail API as the connected address and then archives the sent
// document as a reference template in the background.
package mailer
