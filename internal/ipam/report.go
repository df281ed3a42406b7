package ipam

import (
	"net/netip"

	"github.com/maclarensg/ipam2/internal/network"
)

// Report is the full utilization tree: every address pool, its pools
// grouped by VPC, and their subnets, each level annotated with the
// single-level utilization of its direct children. Renderers consume
// the numbers verbatim; all rounding happens in the calculator.
type Report struct {
	AddressPools []AddressPoolReport `json:"address_pools"`
}

// AddressPoolReport covers one address pool and its pools, grouped by
// the VPC they belong to.
type AddressPoolReport struct {
	Name        string              `json:"name"`
	CIDR        string              `json:"cidr"`
	Utilization network.Utilization `json:"utilization"`
	VPCs        []VPCReport         `json:"vpcs"`
}

// VPCReport groups the pools of one VPC inside one address pool.
type VPCReport struct {
	Name    string       `json:"name"`
	Pools   []PoolReport `json:"pools"`
	Subnets int          `json:"subnets"`
}

// PoolReport covers one pool and its subnets.
type PoolReport struct {
	Name        string              `json:"name"`
	CIDR        string              `json:"cidr"`
	Utilization network.Utilization `json:"utilization"`
	Subnets     []SubnetReport      `json:"subnets"`
}

// SubnetReport is a leaf entry.
type SubnetReport struct {
	Name string `json:"name"`
	CIDR string `json:"cidr"`
}

// Report builds the utilization tree bottom-up: one calculator call per
// parent, aggregated across levels.
func (s *Service) Report() (*Report, error) {
	addressPools, err := s.db.ListAddressPools()
	if err != nil {
		return nil, err
	}
	vpcs, err := s.db.ListVPCs()
	if err != nil {
		return nil, err
	}
	vpcNames := make(map[uint]string, len(vpcs))
	for _, v := range vpcs {
		vpcNames[v.ID] = v.Name
	}

	report := &Report{}
	for _, ap := range addressPools {
		apRange, err := ap.Prefix()
		if err != nil {
			return nil, err
		}

		pools, err := s.db.ListPoolsByAddressPool(ap.ID)
		if err != nil {
			return nil, err
		}

		poolRanges := make([]netip.Prefix, 0, len(pools))
		byVPC := make(map[uint][]PoolReport)
		vpcOrder := make([]uint, 0)
		subnetCounts := make(map[uint]int)

		for _, pool := range pools {
			poolRange, err := pool.Prefix()
			if err != nil {
				return nil, err
			}
			poolRanges = append(poolRanges, poolRange)

			subnetRanges := make([]netip.Prefix, 0, len(pool.Subnets))
			subnetReports := make([]SubnetReport, 0, len(pool.Subnets))
			for _, subnet := range pool.Subnets {
				subnetRange, err := subnet.Prefix()
				if err != nil {
					return nil, err
				}
				subnetRanges = append(subnetRanges, subnetRange)
				subnetReports = append(subnetReports, SubnetReport{Name: subnet.Name, CIDR: subnet.CIDR})
			}

			if _, seen := byVPC[pool.VPCID]; !seen {
				vpcOrder = append(vpcOrder, pool.VPCID)
			}
			byVPC[pool.VPCID] = append(byVPC[pool.VPCID], PoolReport{
				Name:        pool.Name,
				CIDR:        pool.CIDR,
				Utilization: network.ComputeUtilization(poolRange, subnetRanges),
				Subnets:     subnetReports,
			})
			subnetCounts[pool.VPCID] += len(pool.Subnets)
		}

		apReport := AddressPoolReport{
			Name:        ap.Name,
			CIDR:        ap.CIDR,
			Utilization: network.ComputeUtilization(apRange, poolRanges),
		}
		for _, vpcID := range vpcOrder {
			apReport.VPCs = append(apReport.VPCs, VPCReport{
				Name:    vpcNames[vpcID],
				Pools:   byVPC[vpcID],
				Subnets: subnetCounts[vpcID],
			})
		}
		report.AddressPools = append(report.AddressPools, apReport)
	}
	return report, nil
}
