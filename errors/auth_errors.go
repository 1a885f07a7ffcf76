package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AuthError is an authentication failure that carries its HTTP status and
// the sub code reported to API clients.
type AuthError struct {
	Status  int    `json:"-"`
	SubCode string `json:"SubCode"`
	Message string `json:"Error"`
	Err     error  `json:"-"`
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.SubCode, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.SubCode, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Sub codes returned in the SubCode field of error bodies.
const (
	SubCodeInvalidData    = "InvalidData"
	SubCodeInvalidState   = "InvalidStateError"
	SubCodeInvalidGrant   = "InvalidGrantError"
	SubCodeTokenFetch     = "TokenFetchError"
	SubCodeOSMService     = "OSMServiceError"
	SubCodeAuth           = "AuthError"
	SubCodeInternalServer = "InternalServerError"
)

func NewMissingCode() *AuthError {
	return &AuthError{
		Status:  http.StatusBadRequest,
		SubCode: SubCodeInvalidData,
		Message: "Missing code parameter",
	}
}

func NewInvalidState() *AuthError {
	return &AuthError{
		Status:  http.StatusBadRequest,
		SubCode: SubCodeInvalidState,
		Message: "Invalid or expired state parameter",
	}
}

func NewInvalidGrant(err error) *AuthError {
	return &AuthError{
		Status:  http.StatusBadRequest,
		SubCode: SubCodeInvalidGrant,
		Message: "The provided authorization grant is invalid, expired or revoked",
		Err:     err,
	}
}

func NewTokenFetch(err error) *AuthError {
	return &AuthError{
		Status:  http.StatusBadGateway,
		SubCode: SubCodeTokenFetch,
		Message: "Couldn't fetch token from OSM.",
		Err:     err,
	}
}

func NewOSMService(err error) *AuthError {
	return &AuthError{
		Status:  http.StatusBadGateway,
		SubCode: SubCodeOSMService,
		Message: "Couldn't fetch user details from OSM.",
		Err:     err,
	}
}

// NewAuthFailure is used when the provider answered but the identity could not be read.
func NewAuthFailure(err error) *AuthError {
	return &AuthError{
		Status:  http.StatusInternalServerError,
		SubCode: SubCodeAuth,
		Message: "Unable to authenticate",
		Err:     err,
	}
}

func NewInternal(err error) *AuthError {
	return &AuthError{
		Status:  http.StatusInternalServerError,
		SubCode: SubCodeInternalServer,
		Message: "An unexpected error occurred",
		Err:     err,
	}
}

// AsAuthError returns err as an *AuthError, wrapping anything untyped as an
// internal error.
func AsAuthError(err error) *AuthError {
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr
	}
	return NewInternal(err)
}

// IsSubCode reports whether err is an *AuthError with the given sub code.
func IsSubCode(err error, subCode string) bool {
	var authErr *AuthError
	return stderrors.As(err, &authErr) && authErr.SubCode == subCode
}
