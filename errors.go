package auth

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeConfigurationMissing = "auth_configuration_missing"
	TextCodeInvalidCredentials   = "auth_invalid_credentials"
	TextCodeSigningFailure       = "auth_signing_failure"
	TextCodeTokenExpired         = "auth_token_expired"
	TextCodeTokenMalformed       = "auth_token_malformed"
	TextCodeAuthorizationFailed  = "auth_authorization_failed"
)

// ErrConfigurationMissing is returned when the reference credentials are not set
var ErrConfigurationMissing = goerrors.New("Basic authentication not configured!", goerrors.CategoryInternal).
	WithTextCode(TextCodeConfigurationMissing).
	WithCode(http.StatusInternalServerError)

// ErrInvalidCredentials is returned when username or password do not match
var ErrInvalidCredentials = goerrors.New("Username and/or password invalid!", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrSigningFailure wraps token codec errors raised while issuing a token
var ErrSigningFailure = goerrors.New("unable to sign token", goerrors.CategoryInternal).
	WithTextCode(TextCodeSigningFailure).
	WithCode(http.StatusInternalServerError)

// ErrTokenExpired is returned when a presented token is past its expiration
var ErrTokenExpired = goerrors.New("Token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned by the codec for any non expiry verification error
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrAuthorizationFailed is the generic access rejection
var ErrAuthorizationFailed = goerrors.New("Authorization failed", goerrors.CategoryAuth).
	WithTextCode(TextCodeAuthorizationFailed).
	WithCode(goerrors.CodeUnauthorized)

// ErrorKind classifies authentication failures
type ErrorKind string

const (
	KindNone                 ErrorKind = ""
	KindConfigurationMissing ErrorKind = "configuration_missing"
	KindInvalidCredentials   ErrorKind = "invalid_credentials"
	KindSigningFailure       ErrorKind = "signing_failure"
	KindExpiredToken         ErrorKind = "expired_token"
	KindGenericAuthFailure   ErrorKind = "generic_auth_failure"
)

// KindOf maps an error to its ErrorKind. Errors that did not originate
// from this package are reported as generic failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	switch textCode(err) {
	case TextCodeConfigurationMissing:
		return KindConfigurationMissing
	case TextCodeInvalidCredentials:
		return KindInvalidCredentials
	case TextCodeSigningFailure:
		return KindSigningFailure
	case TextCodeTokenExpired:
		return KindExpiredToken
	default:
		return KindGenericAuthFailure
	}
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return KindOf(err) == KindExpiredToken
}

// IsMalformedError reports verification failures that are not expirations
func IsMalformedError(err error) bool {
	switch textCode(err) {
	case TextCodeTokenMalformed, TextCodeAuthorizationFailed:
		return true
	}
	return false
}

// ErrorMessage returns the human readable message for err, without
// category prefixes or wrapped causes.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var rich *goerrors.Error
	if errors.As(err, &rich) && rich != nil {
		return rich.Message
	}
	return err.Error()
}

func textCode(err error) string {
	if err == nil {
		return ""
	}
	var rich *goerrors.Error
	if errors.As(err, &rich) && rich != nil {
		return rich.TextCode
	}
	return ""
}

// withCause clones base and attaches err as its source
func withCause(base *goerrors.Error, err error, meta map[string]any) error {
	clone := base.Clone()
	if clone == nil {
		return base
	}
	if err != nil {
		clone.Source = err
		if meta == nil {
			meta = map[string]any{}
		}
		meta["cause"] = err.Error()
	}
	if len(meta) > 0 {
		return clone.WithMetadata(meta)
	}
	return clone
}
