package auth

// AuthResult is the outcome of a single credential check
type AuthResult struct {
	Succeeded bool
	Identity  *Identity
	Err       error
}

// Authenticated returns a successful AuthResult for username
func Authenticated(username string) AuthResult {
	return AuthResult{
		Succeeded: true,
		Identity:  &Identity{Username: username},
	}
}

// Rejected returns a failed AuthResult carrying err
func Rejected(err error) AuthResult {
	if err == nil {
		err = ErrInvalidCredentials
	}
	return AuthResult{Err: err}
}

// Kind classifies the result error
func (r AuthResult) Kind() ErrorKind {
	return KindOf(r.Err)
}

// LoginResult is the outcome of a login call. Token is empty whenever Err is set.
type LoginResult struct {
	Token string
	Err   error
}

// OK reports whether a token was issued
func (r LoginResult) OK() bool {
	return r.Err == nil && r.Token != ""
}

// Kind classifies the result error
func (r LoginResult) Kind() ErrorKind {
	return KindOf(r.Err)
}

// Message returns the error message, empty on success
func (r LoginResult) Message() string {
	return ErrorMessage(r.Err)
}
