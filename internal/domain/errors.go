package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound       = errors.New("domain: not found")
	ErrForbidden      = errors.New("domain: forbidden")
	ErrInvalidSetting = errors.New("domain: invalid setting")
)
