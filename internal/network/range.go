// Package network implements the address-space core of the IPAM tool:
// CIDR range arithmetic, hierarchy validation, best-fit block allocation
// and utilization accounting. Everything in this package is a pure
// computation over netip values supplied by the caller; persistence and
// presentation live elsewhere.
package network

import (
	"fmt"
	"iter"
	"math/big"
	"net/netip"

	"go4.org/netipx"
)

// familyBits returns the address width for a's family: 32 for IPv4,
// 128 for IPv6.
func familyBits(a netip.Addr) int {
	if a.Is4() {
		return 32
	}
	return 128
}

// sameFamily reports whether both prefixes belong to the same address
// family.
func sameFamily(a, b netip.Prefix) bool {
	return a.Addr().Is4() == b.Addr().Is4()
}

func addrToBig(a netip.Addr) *big.Int {
	if a.Is4() {
		b := a.As4()
		return new(big.Int).SetBytes(b[:])
	}
	b := a.As16()
	return new(big.Int).SetBytes(b[:])
}

func bigToAddr(i *big.Int, bits int) (netip.Addr, bool) {
	if i.Sign() < 0 || i.BitLen() > bits {
		return netip.Addr{}, false
	}
	if bits == 32 {
		var out [4]byte
		i.FillBytes(out[:])
		return netip.AddrFrom4(out), true
	}
	var out [16]byte
	i.FillBytes(out[:])
	return netip.AddrFrom16(out), true
}

// blockSize returns 2^(width-prefixBits), the number of addresses in a
// block of the given prefix length.
func blockSize(width, prefixBits int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(width-prefixBits))
}

// alignUp rounds n up to the next multiple of step. step must be a
// power of two greater than zero.
func alignUp(n, step *big.Int) *big.Int {
	q, r := new(big.Int), new(big.Int)
	q.QuoRem(n, step, r)
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Mul(q, step)
}

// Contains reports whether inner lies entirely within outer. Prefixes
// of different address families never contain each other.
func Contains(outer, inner netip.Prefix) bool {
	if !sameFamily(outer, inner) {
		return false
	}
	return outer.Bits() <= inner.Bits() && outer.Contains(inner.Masked().Addr())
}

// Overlaps reports whether the address intervals of a and b intersect.
// Identical ranges overlap; prefixes of different families never do.
func Overlaps(a, b netip.Prefix) bool {
	if !sameFamily(a, b) {
		return false
	}
	ra := netipx.RangeOfPrefix(a.Masked())
	rb := netipx.RangeOfPrefix(b.Masked())
	return ra.Overlaps(rb)
}

// IsAligned reports whether addr is the canonical network address for
// the given prefix length, i.e. a valid base for a /bits block.
func IsAligned(addr netip.Addr, bits int) bool {
	p, err := addr.Prefix(bits)
	if err != nil {
		return false
	}
	return p.Addr() == addr
}

// Candidates returns an in-order iterator over every aligned /bits
// block contained in parent, lowest base address first. The sequence is
// finite with exactly 2^(bits-parent.Bits()) elements, but is produced
// lazily so callers can stop early.
//
// It fails with ErrInvalidPrefix when bits is not strictly more
// specific than the parent or exceeds the family width.
func Candidates(parent netip.Prefix, bits int) (iter.Seq[netip.Prefix], error) {
	width := familyBits(parent.Addr())
	if bits <= parent.Bits() || bits > width {
		return nil, fmt.Errorf("%w: /%d under /%d parent", ErrInvalidPrefix, bits, parent.Bits())
	}

	parent = parent.Masked()
	start := addrToBig(parent.Addr())
	end := addrToBig(netipx.RangeOfPrefix(parent).To())
	size := blockSize(width, bits)

	return func(yield func(netip.Prefix) bool) {
		cur := new(big.Int).Set(start)
		for cur.Cmp(end) <= 0 {
			addr, ok := bigToAddr(cur, width)
			if !ok {
				return
			}
			if !yield(netip.PrefixFrom(addr, bits)) {
				return
			}
			cur.Add(cur, size)
		}
	}, nil
}
