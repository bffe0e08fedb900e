package token

import "errors"

var (
	ErrMalformed = errors.New("credential is not a three part token")
	ErrNoToken   = errors.New("no credential stored")
)
