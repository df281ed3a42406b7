// Package database provides data models and the persistence gateway for
// the IPAM tool. It defines the schema using GORM and exposes the
// snapshot reads and transactional writes the allocation service needs.
// Identity is name based throughout: address pool and VPC names are
// globally unique, pool and subnet names are unique within their VPC.
package database

import (
	"net/netip"
	"time"
)

// AddressPool is the top level of the hierarchy: a named supernet
// (typically /8 to /16) from which pools are carved.
type AddressPool struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CIDR      string    `gorm:"column:cidr;not null" json:"cidr"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Pools []Pool `gorm:"foreignKey:AddressPoolID" json:"pools,omitempty"`
}

// VPC is a logical grouping that owns no address range of its own. It
// scopes pool and subnet names and groups them for reporting.
type VPC struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Pools   []Pool   `gorm:"foreignKey:VPCID" json:"pools,omitempty"`
	Subnets []Subnet `gorm:"foreignKey:VPCID" json:"subnets,omitempty"`
}

// Pool is a mid-level range allocated out of one AddressPool and
// namespaced under one VPC.
type Pool struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null;uniqueIndex:idx_pools_vpc_name" json:"name"`
	VPCID         uint      `gorm:"not null;uniqueIndex:idx_pools_vpc_name" json:"vpc_id"`
	AddressPoolID uint      `gorm:"not null" json:"address_pool_id"`
	CIDR          string    `gorm:"column:cidr;not null" json:"cidr"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Subnets []Subnet `gorm:"foreignKey:PoolID" json:"subnets,omitempty"`
}

// Subnet is a leaf range allocated out of one Pool, in the same VPC.
type Subnet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_subnets_vpc_name" json:"name"`
	VPCID     uint      `gorm:"not null;uniqueIndex:idx_subnets_vpc_name" json:"vpc_id"`
	PoolID    uint      `gorm:"not null" json:"pool_id"`
	CIDR      string    `gorm:"column:cidr;not null" json:"cidr"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is an API account. Passwords are stored as bcrypt hashes and
// never serialized.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Active    bool       `gorm:"default:true" json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// Prefix parses the stored CIDR into its canonical netip form.
func (p AddressPool) Prefix() (netip.Prefix, error) { return parseCIDR(p.CIDR) }

// Prefix parses the stored CIDR into its canonical netip form.
func (p Pool) Prefix() (netip.Prefix, error) { return parseCIDR(p.CIDR) }

// Prefix parses the stored CIDR into its canonical netip form.
func (s Subnet) Prefix() (netip.Prefix, error) { return parseCIDR(s.CIDR) }

func parseCIDR(s string) (netip.Prefix, error) {
	p, err := netip.ParsePrefix(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	return p.Masked(), nil
}

// TableName returns the database table name for the AddressPool model.
func (AddressPool) TableName() string {
	return "address_pools"
}

// TableName returns the database table name for the VPC model.
func (VPC) TableName() string {
	return "vpcs"
}

// TableName returns the database table name for the Pool model.
func (Pool) TableName() string {
	return "pools"
}

// TableName returns the database table name for the Subnet model.
func (Subnet) TableName() string {
	return "subnets"
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}
