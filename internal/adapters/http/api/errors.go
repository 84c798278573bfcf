package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrMissingAccount = errors.New("missing " + AccountHeader + " header")
)
