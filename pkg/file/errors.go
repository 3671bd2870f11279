package file

import "errors"

var (
	ErrInvalidConfig = errors.New("file: invalid storage configuration")
	ErrNilFileHeader = errors.New("file: no file uploaded")
	ErrInvalidPath   = errors.New("file: key escapes the storage root")
	ErrInvalidName   = errors.New("file: invalid file name")
	ErrFileNotFound  = errors.New("file: not found")

	ErrFileTooLarge       = errors.New("file: too large")
	ErrMIMETypeNotAllowed = errors.New("file: content type not allowed")

	// Backend failures. S3 API error codes are folded into these.
	ErrAccessDenied   = errors.New("file: access denied")
	ErrBucketNotFound = errors.New("file: bucket not found")
	ErrUnavailable    = errors.New("file: storage temporarily unavailable")
	ErrStorage        = errors.New("file: storage operation failed")
)
