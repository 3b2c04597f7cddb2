package employee

import (
	"errors"
	"net/http"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrPasswordEditFailed = errors.New("password edit failed")
	ErrPersistence        = errors.New("no rows affected")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidInput       = errors.New("invalid input")
)

type failure struct {
	status int
	msg    string
}

// failures maps every service error to the fixed status and message the
// caller sees. Login failures keep distinct messages.
var failures = []struct {
	err error
	failure
}{
	{ErrAccountNotFound, failure{http.StatusNotFound, "account not found"}},
	{ErrInvalidCredentials, failure{http.StatusUnauthorized, "password error"}},
	{ErrAccountLocked, failure{http.StatusForbidden, "account locked"}},
	{ErrPasswordEditFailed, failure{http.StatusBadRequest, "password edit failed"}},
	{ErrUsernameTaken, failure{http.StatusConflict, "username already exists"}},
	{ErrInvalidInput, failure{http.StatusBadRequest, "invalid request"}},
	{ErrPersistence, failure{http.StatusInternalServerError, "operation failed"}},
}

// describe returns the status and message for err; unknown errors become a
// generic 500.
func describe(err error) (int, string) {
	for _, f := range failures {
		if errors.Is(err, f.err) {
			return f.status, f.msg
		}
	}
	return http.StatusInternalServerError, "operation failed"
}
