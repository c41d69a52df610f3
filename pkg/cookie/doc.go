// Package cookie provides a small HTTP cookie manager with shared defaults
// and HMAC-SHA256 signed values.
//
// The session package uses signed cookies to carry session ids: a tampered
// or forged cookie fails verification and is treated as absent.
//
// # Usage
//
//	import "github.com/dmitrymomot/mongosession/pkg/cookie"
//
//	// secrets must be at least 32 bytes
//	man, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")})
//	if err != nil { log.Fatal(err) }
//
//	_ = man.SetSigned(w, "sid", sessionID)
//	id, err := man.GetSigned(r, "sid")
//
// Multiple secrets enable key rotation: the first signs, every secret verifies.
//
// # Error Handling
//
// Sentinel errors such as ErrCookieNotFound and ErrInvalidSignature can be
// checked with errors.Is.
package cookie
