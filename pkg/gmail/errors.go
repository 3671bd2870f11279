package gmail

import "errors"

var (
	ErrMissingRecipient = errors.New("gmail: recipient is required")
	ErrMissingSender    = errors.New("gmail: sender is required")
	ErrInvalidAddress   = errors.New("gmail: invalid email address")
	ErrSendFailed       = errors.New("gmail: failed to send message")
	ErrUnauthorized     = errors.New("gmail: credentials rejected")
)
