// Package auth issues and validates JSON Web Tokens for a single
// username/password pair.
//
// Login flow:
//   - AuthConfig is built once with NewAuthConfig and holds the reference
//     credentials, the HMAC secret, and the SigningOptions for issued tokens.
//   - Authenticator.Login runs the CredentialVerifier (StaticVerifier unless
//     WithCustomVerifier is set) and only signs a token when it succeeds.
//     Failures are returned as data in LoginResult, never panics.
//
// Access flow:
//   - Guard.Authorize takes an Authorization header, requires the Bearer
//     scheme, and verifies the token through the TokenCodec. Expired tokens
//     are reported as ErrTokenExpired, anything else as ErrAuthorizationFailed.
//   - middleware/jwtware wraps the Guard for fiber and net/http and stores the
//     decoded Claims on the request.
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter for login and access
//     decisions. Sinks run best-effort (errors are logged).
package auth
