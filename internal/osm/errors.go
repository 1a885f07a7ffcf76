package osm

import "errors"

var (
	ErrEmptyToken        = errors.New("token response did not contain an access token")
	ErrUnexpectedStatus  = errors.New("unexpected status from user details endpoint")
	ErrIncompleteProfile = errors.New("user details response is missing required fields")
)
