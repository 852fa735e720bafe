package canon

import "errors"

var (
	ErrMissingColumn   = errors.New("canon: missing value")
	ErrMalformedValue  = errors.New("canon: malformed value")
	ErrUnknownProvider = errors.New("canon: unknown provider")
)
