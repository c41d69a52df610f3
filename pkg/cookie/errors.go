package cookie

import "errors"

// Manager errors. Read errors mean the client sent no usable cookie and
// callers usually treat them alike.
var (
	ErrNoSecret       = errors.New("cookie.no_secret")
	ErrSecretTooShort = errors.New("cookie.secret_too_short")
	ErrValueTooLarge  = errors.New("cookie.value_too_large")

	ErrCookieNotFound   = errors.New("cookie.not_found")
	ErrInvalidFormat    = errors.New("cookie.invalid_format")
	ErrInvalidSignature = errors.New("cookie.invalid_signature")
)
