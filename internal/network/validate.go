package network

import (
	"fmt"
	"net/netip"
)

// Level identifies a tier of the AddressPool -> Pool -> Subnet
// hierarchy. VPCs are a naming scope, not a range owner, so they carry
// no level of their own.
type Level int

const (
	LevelAddressPool Level = iota
	LevelPool
	LevelSubnet
)

// String returns the display name of the level.
func (l Level) String() string {
	switch l {
	case LevelAddressPool:
		return "address pool"
	case LevelPool:
		return "pool"
	case LevelSubnet:
		return "subnet"
	default:
		return "unknown"
	}
}

// ValidateChild checks whether a child block of childBits may be carved
// out of parentRange at the given hierarchy position. The rules are
// checked in order:
//
//  1. childBits must lie in [0, familyWidth]       -> ErrInvalidPrefix
//  2. childBits must be strictly more specific     -> ErrPrefixNotMoreSpecific
//  3. the parent level must be the direct ancestor -> ErrInvalidHierarchyLevel
//
// Equal prefix lengths are rejected even though such a child would fit:
// every hierarchy step has to shrink the address count. The function is
// pure and has no side effects.
func ValidateChild(child, parent Level, parentRange netip.Prefix, childBits int) error {
	width := familyBits(parentRange.Addr())
	if childBits < 0 || childBits > width {
		return fmt.Errorf("%w: /%d outside [0, %d]", ErrInvalidPrefix, childBits, width)
	}
	if childBits <= parentRange.Bits() {
		return fmt.Errorf("%w: child /%d vs parent /%d", ErrPrefixNotMoreSpecific, childBits, parentRange.Bits())
	}

	switch child {
	case LevelPool:
		if parent != LevelAddressPool {
			return fmt.Errorf("%w: pool parent must be an address pool, got %s", ErrInvalidHierarchyLevel, parent)
		}
	case LevelSubnet:
		if parent != LevelPool {
			return fmt.Errorf("%w: subnet parent must be a pool, got %s", ErrInvalidHierarchyLevel, parent)
		}
	default:
		return fmt.Errorf("%w: %s cannot be allocated under %s", ErrInvalidHierarchyLevel, child, parent)
	}
	return nil
}
