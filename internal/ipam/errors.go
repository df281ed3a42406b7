package ipam

import "errors"

// User-facing failures of the service layer. Engine failures
// (invalid prefix, exhaustion, ...) pass through from
// internal/network untouched.
var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("name already exists")
	ErrNotEmpty      = errors.New("still has children")
	ErrInvalidCIDR   = errors.New("invalid cidr")
)
