package network

import (
	"fmt"
	"math/big"
	"net/netip"
	"sort"

	"go4.org/netipx"
)

// freeInterval is a maximal contiguous run of unallocated addresses
// inside a parent range, bounds inclusive.
type freeInterval struct {
	start *big.Int
	end   *big.Int
}

func (g freeInterval) size() *big.Int {
	return new(big.Int).Add(new(big.Int).Sub(g.end, g.start), big.NewInt(1))
}

// Allocate selects a free, aligned /bits block for a new child of
// parentRange given a snapshot of the existing sibling blocks. It is
// stateless and performs no I/O; committing the returned block
// durably, and serializing concurrent allocations, is the caller's
// responsibility.
//
// Placement is best-fit: the block is taken from the smallest free
// interval that can still host an aligned block of the requested size,
// so tight gaps are filled first and large contiguous regions stay
// available for future, less specific requests. Ties between
// equal-sized intervals break toward the lower base address, and the
// lowest aligned candidate inside the winning interval is returned, so
// the result is fully deterministic.
func Allocate(child, parent Level, parentRange netip.Prefix, bits int, siblings []netip.Prefix) (netip.Prefix, error) {
	if err := ValidateChild(child, parent, parentRange, bits); err != nil {
		return netip.Prefix{}, err
	}

	for _, s := range siblings {
		if !sameFamily(parentRange, s) {
			return netip.Prefix{}, fmt.Errorf("%w: sibling %s under parent %s", ErrFamilyMismatch, s, parentRange)
		}
	}

	width := familyBits(parentRange.Addr())
	size := blockSize(width, bits)

	var (
		bestGap  *freeInterval
		bestBase *big.Int
	)
	for _, gap := range freeIntervals(parentRange, siblings) {
		base := alignUp(gap.start, size)
		last := new(big.Int).Add(base, new(big.Int).Sub(size, big.NewInt(1)))
		if last.Cmp(gap.end) > 0 {
			continue // no aligned block fits in this gap
		}
		if bestGap == nil || gap.size().Cmp(bestGap.size()) < 0 {
			g := gap
			bestGap, bestBase = &g, base
		}
	}
	if bestGap == nil {
		return netip.Prefix{}, fmt.Errorf("%w: no free /%d block in %s", ErrAddressSpaceExhausted, bits, parentRange)
	}

	addr, ok := bigToAddr(bestBase, width)
	if !ok {
		return netip.Prefix{}, fmt.Errorf("%w: no free /%d block in %s", ErrAddressSpaceExhausted, bits, parentRange)
	}
	return netip.PrefixFrom(addr, bits), nil
}

// freeIntervals computes the sorted complement of the sibling blocks
// within parent: every maximal gap of unallocated addresses, ascending.
// Siblings are masked, clamped to the parent and merged first, so
// overlapping or adjacent used ranges collapse into one.
func freeIntervals(parent netip.Prefix, siblings []netip.Prefix) []freeInterval {
	parent = parent.Masked()
	pr := netipx.RangeOfPrefix(parent)
	parentStart := addrToBig(pr.From())
	parentEnd := addrToBig(pr.To())

	used := make([]freeInterval, 0, len(siblings))
	for _, s := range siblings {
		r := netipx.RangeOfPrefix(s.Masked())
		start, end := addrToBig(r.From()), addrToBig(r.To())
		if end.Cmp(parentStart) < 0 || start.Cmp(parentEnd) > 0 {
			continue
		}
		if start.Cmp(parentStart) < 0 {
			start = parentStart
		}
		if end.Cmp(parentEnd) > 0 {
			end = parentEnd
		}
		used = append(used, freeInterval{start: start, end: end})
	}
	sort.Slice(used, func(i, j int) bool { return used[i].start.Cmp(used[j].start) < 0 })

	merged := used[:0]
	for _, u := range used {
		if n := len(merged); n > 0 {
			lastEnd := new(big.Int).Add(merged[n-1].end, big.NewInt(1))
			if lastEnd.Cmp(u.start) >= 0 {
				if u.end.Cmp(merged[n-1].end) > 0 {
					merged[n-1].end = u.end
				}
				continue
			}
		}
		merged = append(merged, u)
	}

	var gaps []freeInterval
	cursor := new(big.Int).Set(parentStart)
	for _, u := range merged {
		if cursor.Cmp(u.start) < 0 {
			gaps = append(gaps, freeInterval{
				start: new(big.Int).Set(cursor),
				end:   new(big.Int).Sub(u.start, big.NewInt(1)),
			})
		}
		cursor = new(big.Int).Add(u.end, big.NewInt(1))
	}
	if cursor.Cmp(parentEnd) <= 0 {
		gaps = append(gaps, freeInterval{start: cursor, end: parentEnd})
	}
	return gaps
}
