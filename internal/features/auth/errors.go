package auth

import "errors"

var errInvalidCode = errors.New("invalid one-time code")
