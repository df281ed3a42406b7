package network

import (
	"math/big"
	"net/netip"
)

// Utilization describes how much of a parent range its direct children
// consume. Counts are big.Ints so IPv6 parents up to /0 cannot
// overflow.
type Utilization struct {
	UsedAddresses  *big.Int `json:"used_addresses"`
	TotalAddresses *big.Int `json:"total_addresses"`
	FreeAddresses  *big.Int `json:"free_addresses"`
	PercentUsed    float64  `json:"percent_used"`
}

// ComputeUtilization sums the address counts of the direct children of
// parent. Children must be the pairwise-disjoint sibling set the
// allocator maintains; disjointness is not re-checked here, which is
// what makes plain summation safe. The calculator is single-level:
// hierarchy-wide figures are built by calling it once per parent and
// aggregating bottom-up.
//
// PercentUsed is rounded half-up to one decimal place, in integer
// arithmetic, so every renderer reproduces the same figure.
func ComputeUtilization(parent netip.Prefix, children []netip.Prefix) Utilization {
	width := familyBits(parent.Addr())
	total := blockSize(width, parent.Bits())

	used := new(big.Int)
	for _, c := range children {
		used.Add(used, blockSize(familyBits(c.Addr()), c.Bits()))
	}

	free := new(big.Int).Sub(total, used)
	if free.Sign() < 0 {
		free.SetInt64(0)
	}

	return Utilization{
		UsedAddresses:  used,
		TotalAddresses: total,
		FreeAddresses:  free,
		PercentUsed:    percentUsed(used, total),
	}
}

// percentUsed returns used/total*100 rounded half-up to tenths.
// tenths = floor((used*2000 + total) / (2*total)).
func percentUsed(used, total *big.Int) float64 {
	if total.Sign() == 0 {
		return 0
	}
	num := new(big.Int).Mul(used, big.NewInt(2000))
	num.Add(num, total)
	den := new(big.Int).Mul(total, big.NewInt(2))
	tenths := new(big.Int).Quo(num, den)
	return float64(tenths.Int64()) / 10
}
