package network

import "errors"

// Allocation and validation failures surfaced by this package. They are
// sentinel values so callers can branch with errors.Is; every return site
// wraps them with the offending value for context.
var (
	ErrInvalidPrefix         = errors.New("invalid prefix length")
	ErrPrefixNotMoreSpecific = errors.New("prefix not more specific than parent")
	ErrInvalidHierarchyLevel = errors.New("invalid hierarchy level")
	ErrAddressSpaceExhausted = errors.New("address space exhausted")
	ErrFamilyMismatch        = errors.New("address family mismatch")
)
