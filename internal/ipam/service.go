// Package ipam wires the pure allocation engine to the persistence
// gateway. Every write follows the same shape: open a transaction, read
// the sibling snapshot, run the engine, commit the chosen range. The
// engine itself stays stateless; this package is the only place the
// read-then-write sequence is serialized.
package ipam

import (
	"errors"
	"fmt"
	"net/netip"

	"gorm.io/gorm"

	"github.com/maclarensg/ipam2/internal/database"
	"github.com/maclarensg/ipam2/internal/network"
)

// Service exposes the IPAM operations the CLI and API consume.
type Service struct {
	db *database.Database
}

// New creates a service over an open database.
func New(db *database.Database) *Service {
	return &Service{db: db}
}

// CreateAddressPool registers a new top-level supernet. The CIDR is
// canonicalized before it is stored.
func (s *Service) CreateAddressPool(name, cidr string) (*database.AddressPool, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCIDR, cidr)
	}
	prefix = prefix.Masked()

	pool := &database.AddressPool{Name: name, CIDR: prefix.String()}
	err = s.db.WithTx(func(tx *database.Database) error {
		if _, err := tx.GetAddressPoolByName(name); err == nil {
			return fmt.Errorf("address pool %q: %w", name, ErrDuplicateName)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.CreateAddressPool(pool)
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// ListAddressPools returns all address pools with their pools loaded.
func (s *Service) ListAddressPools() ([]database.AddressPool, error) {
	return s.db.ListAddressPools()
}

// GetAddressPool looks up one address pool by name.
func (s *Service) GetAddressPool(name string) (*database.AddressPool, error) {
	pool, err := s.db.GetAddressPoolByName(name)
	if err != nil {
		return nil, notFound(err, "address pool", name)
	}
	return pool, nil
}

// DeleteAddressPool removes an empty address pool. Pools must be
// deleted first; this mirrors the explicit-teardown rule at the top of
// the hierarchy, where a cascade could silently free large regions.
func (s *Service) DeleteAddressPool(name string) error {
	return s.db.WithTx(func(tx *database.Database) error {
		pool, err := tx.GetAddressPoolByName(name)
		if err != nil {
			return notFound(err, "address pool", name)
		}
		count, err := tx.CountPoolsByAddressPool(pool.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("address pool %q has %d pools: %w", name, count, ErrNotEmpty)
		}
		return tx.DeleteAddressPool(pool.ID)
	})
}

// CreateVPC registers a new namespace for pools and subnets.
func (s *Service) CreateVPC(name string) (*database.VPC, error) {
	vpc := &database.VPC{Name: name}
	err := s.db.WithTx(func(tx *database.Database) error {
		if _, err := tx.GetVPCByName(name); err == nil {
			return fmt.Errorf("vpc %q: %w", name, ErrDuplicateName)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.CreateVPC(vpc)
	})
	if err != nil {
		return nil, err
	}
	return vpc, nil
}

// ListVPCs returns all VPCs with pools and subnets loaded.
func (s *Service) ListVPCs() ([]database.VPC, error) {
	return s.db.ListVPCs()
}

// DeleteVPC removes a VPC and everything allocated under it.
func (s *Service) DeleteVPC(name string) error {
	vpc, err := s.db.GetVPCByName(name)
	if err != nil {
		return notFound(err, "vpc", name)
	}
	return s.db.DeleteVPC(vpc.ID)
}

// CreatePool allocates a new pool range out of an address pool and
// records it under the given VPC. The sibling snapshot is read and the
// new range committed in one transaction, so allocations against the
// same parent are serialized by the store.
func (s *Service) CreatePool(name, addressPool, vpcName string, bits int) (*database.Pool, error) {
	var pool *database.Pool
	err := s.db.WithTx(func(tx *database.Database) error {
		parent, err := tx.GetAddressPoolByName(addressPool)
		if err != nil {
			return notFound(err, "address pool", addressPool)
		}
		vpc, err := tx.GetVPCByName(vpcName)
		if err != nil {
			return notFound(err, "vpc", vpcName)
		}
		if _, err := tx.GetPoolByName(vpc.ID, name); err == nil {
			return fmt.Errorf("pool %q in vpc %q: %w", name, vpcName, ErrDuplicateName)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		parentRange, err := parent.Prefix()
		if err != nil {
			return err
		}
		siblings, err := tx.PoolRanges(parent.ID)
		if err != nil {
			return err
		}

		allocated, err := network.Allocate(network.LevelPool, network.LevelAddressPool, parentRange, bits, siblings)
		if err != nil {
			return err
		}

		pool = &database.Pool{
			Name:          name,
			VPCID:         vpc.ID,
			AddressPoolID: parent.ID,
			CIDR:          allocated.String(),
		}
		return tx.CreatePool(pool)
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// ListPools returns all pools with their subnets loaded.
func (s *Service) ListPools() ([]database.Pool, error) {
	return s.db.ListPools()
}

// GetPool looks up one pool by name within a VPC.
func (s *Service) GetPool(name, vpcName string) (*database.Pool, error) {
	vpc, err := s.db.GetVPCByName(vpcName)
	if err != nil {
		return nil, notFound(err, "vpc", vpcName)
	}
	pool, err := s.db.GetPoolByName(vpc.ID, name)
	if err != nil {
		return nil, notFound(err, "pool", name)
	}
	return pool, nil
}

// DeletePool removes a pool from a VPC together with its subnets,
// freeing its range for future allocations.
func (s *Service) DeletePool(name, vpcName string) error {
	vpc, err := s.db.GetVPCByName(vpcName)
	if err != nil {
		return notFound(err, "vpc", vpcName)
	}
	pool, err := s.db.GetPoolByName(vpc.ID, name)
	if err != nil {
		return notFound(err, "pool", name)
	}
	return s.db.DeletePool(pool.ID)
}

// CreateSubnet allocates a new subnet range out of a pool in the given
// VPC, with the same transactional read-then-commit shape as
// CreatePool.
func (s *Service) CreateSubnet(name, poolName, vpcName string, bits int) (*database.Subnet, error) {
	var subnet *database.Subnet
	err := s.db.WithTx(func(tx *database.Database) error {
		vpc, err := tx.GetVPCByName(vpcName)
		if err != nil {
			return notFound(err, "vpc", vpcName)
		}
		parent, err := tx.GetPoolByName(vpc.ID, poolName)
		if err != nil {
			return notFound(err, "pool", poolName)
		}
		if _, err := tx.GetSubnetByName(vpc.ID, name); err == nil {
			return fmt.Errorf("subnet %q in vpc %q: %w", name, vpcName, ErrDuplicateName)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		parentRange, err := parent.Prefix()
		if err != nil {
			return err
		}
		siblings, err := tx.SubnetRanges(parent.ID)
		if err != nil {
			return err
		}

		allocated, err := network.Allocate(network.LevelSubnet, network.LevelPool, parentRange, bits, siblings)
		if err != nil {
			return err
		}

		subnet = &database.Subnet{
			Name:   name,
			VPCID:  vpc.ID,
			PoolID: parent.ID,
			CIDR:   allocated.String(),
		}
		return tx.CreateSubnet(subnet)
	})
	if err != nil {
		return nil, err
	}
	return subnet, nil
}

// ListSubnets returns all subnets, ordered by base address.
func (s *Service) ListSubnets() ([]database.Subnet, error) {
	var subnets []database.Subnet
	err := s.db.Order("cidr").Find(&subnets).Error
	return subnets, err
}

// DeleteSubnet removes a subnet from a VPC, freeing its range.
func (s *Service) DeleteSubnet(name, vpcName string) error {
	vpc, err := s.db.GetVPCByName(vpcName)
	if err != nil {
		return notFound(err, "vpc", vpcName)
	}
	subnet, err := s.db.GetSubnetByName(vpc.ID, name)
	if err != nil {
		return notFound(err, "subnet", name)
	}
	return s.db.DeleteSubnet(subnet.ID)
}

func notFound(err error, kind, name string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	return err
}
