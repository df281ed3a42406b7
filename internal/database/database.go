package database

import (
	"fmt"
	"io"
	"net/netip"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Database wraps a GORM instance and provides the persistence gateway
// operations for the IPAM hierarchy. It owns id generation, name
// uniqueness and cascade deletes; the allocation engine never touches
// it directly.
type Database struct {
	*gorm.DB
}

// Open connects to the configured backend and runs migrations for all
// models. SQLite is used for local single-writer operation; Postgres
// for shared deployments. The GORM logger is routed through
// charmbracelet/log and silenced below warn level.
func Open(driver, dsn string) (*Database, error) {
	gormLog := logger.New(log.Default(), logger.Config{LogLevel: logger.Silent})

	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&AddressPool{}, &VPC{}, &Pool{}, &Subnet{}, &User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

// WithTx runs fn inside a single transaction and hands it a Database
// bound to that transaction. Allocations use this so the sibling
// snapshot read and the commit of the new range are serialized.
func (db *Database) WithTx(fn func(tx *Database) error) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return fn(&Database{DB: tx})
	})
}

// CreateAddressPool inserts a new address pool record.
func (db *Database) CreateAddressPool(pool *AddressPool) error {
	return db.Create(pool).Error
}

// GetAddressPoolByName retrieves an address pool by its unique name.
func (db *Database) GetAddressPoolByName(name string) (*AddressPool, error) {
	var pool AddressPool
	err := db.Where("name = ?", name).First(&pool).Error
	return &pool, err
}

// ListAddressPools retrieves all address pools with their pools
// preloaded, ordered by name.
func (db *Database) ListAddressPools() ([]AddressPool, error) {
	var pools []AddressPool
	err := db.Preload("Pools").Order("name").Find(&pools).Error
	return pools, err
}

// DeleteAddressPool removes an address pool record by id. Child checks
// are the caller's responsibility.
func (db *Database) DeleteAddressPool(id uint) error {
	return db.Delete(&AddressPool{}, id).Error
}

// CountPoolsByAddressPool returns the number of pools carved out of the
// given address pool.
func (db *Database) CountPoolsByAddressPool(addressPoolID uint) (int64, error) {
	var count int64
	err := db.Model(&Pool{}).Where("address_pool_id = ?", addressPoolID).Count(&count).Error
	return count, err
}

// CreateVPC inserts a new VPC record.
func (db *Database) CreateVPC(vpc *VPC) error {
	return db.Create(vpc).Error
}

// GetVPCByName retrieves a VPC by its unique name.
func (db *Database) GetVPCByName(name string) (*VPC, error) {
	var vpc VPC
	err := db.Where("name = ?", name).First(&vpc).Error
	return &vpc, err
}

// ListVPCs retrieves all VPCs with pools and subnets preloaded, ordered
// by name.
func (db *Database) ListVPCs() ([]VPC, error) {
	var vpcs []VPC
	err := db.Preload("Pools").Preload("Subnets").Order("name").Find(&vpcs).Error
	return vpcs, err
}

// DeleteVPC removes a VPC and cascades to all of its pools and subnets
// in one transaction.
func (db *Database) DeleteVPC(id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vpc_id = ?", id).Delete(&Subnet{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vpc_id = ?", id).Delete(&Pool{}).Error; err != nil {
			return err
		}
		return tx.Delete(&VPC{}, id).Error
	})
}

// CreatePool inserts a new pool record.
func (db *Database) CreatePool(pool *Pool) error {
	return db.Create(pool).Error
}

// GetPoolByName retrieves a pool by name within a VPC; pool names are
// only unique inside their VPC.
func (db *Database) GetPoolByName(vpcID uint, name string) (*Pool, error) {
	var pool Pool
	err := db.Where("vpc_id = ? AND name = ?", vpcID, name).First(&pool).Error
	return &pool, err
}

// ListPools retrieves all pools with their subnets preloaded, ordered
// by base address.
func (db *Database) ListPools() ([]Pool, error) {
	var pools []Pool
	err := db.Preload("Subnets").Order("cidr").Find(&pools).Error
	return pools, err
}

// ListPoolsByAddressPool retrieves the pools carved out of one address
// pool.
func (db *Database) ListPoolsByAddressPool(addressPoolID uint) ([]Pool, error) {
	var pools []Pool
	err := db.Preload("Subnets").Where("address_pool_id = ?", addressPoolID).Order("cidr").Find(&pools).Error
	return pools, err
}

// DeletePool removes a pool and cascades to its subnets in one
// transaction.
func (db *Database) DeletePool(id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pool_id = ?", id).Delete(&Subnet{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Pool{}, id).Error
	})
}

// CreateSubnet inserts a new subnet record.
func (db *Database) CreateSubnet(subnet *Subnet) error {
	return db.Create(subnet).Error
}

// GetSubnetByName retrieves a subnet by name within a VPC.
func (db *Database) GetSubnetByName(vpcID uint, name string) (*Subnet, error) {
	var subnet Subnet
	err := db.Where("vpc_id = ? AND name = ?", vpcID, name).First(&subnet).Error
	return &subnet, err
}

// ListSubnetsByPool retrieves the subnets carved out of one pool.
func (db *Database) ListSubnetsByPool(poolID uint) ([]Subnet, error) {
	var subnets []Subnet
	err := db.Where("pool_id = ?", poolID).Order("cidr").Find(&subnets).Error
	return subnets, err
}

// DeleteSubnet removes a subnet record by id.
func (db *Database) DeleteSubnet(id uint) error {
	return db.Delete(&Subnet{}, id).Error
}

// PoolRanges returns the sibling snapshot for pool allocation: the
// parsed ranges of every pool in the given address pool.
func (db *Database) PoolRanges(addressPoolID uint) ([]netip.Prefix, error) {
	var pools []Pool
	if err := db.Where("address_pool_id = ?", addressPoolID).Find(&pools).Error; err != nil {
		return nil, err
	}
	return prefixes(pools)
}

// SubnetRanges returns the sibling snapshot for subnet allocation: the
// parsed ranges of every subnet in the given pool.
func (db *Database) SubnetRanges(poolID uint) ([]netip.Prefix, error) {
	var subnets []Subnet
	if err := db.Where("pool_id = ?", poolID).Find(&subnets).Error; err != nil {
		return nil, err
	}
	return prefixes(subnets)
}

type ranged interface{ Prefix() (netip.Prefix, error) }

func prefixes[T ranged](items []T) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(items))
	for _, item := range items {
		p, err := item.Prefix()
		if err != nil {
			return nil, fmt.Errorf("corrupt cidr in store: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// CreateUserWithCredentials creates a new API user, hashing the
// password with bcrypt before it is stored.
func (db *Database) CreateUserWithCredentials(username, email, password string) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Active:   true,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// AuthenticateUser validates credentials and returns the user on
// success. Deactivated accounts cannot log in.
func (db *Database) AuthenticateUser(username, password string) (*User, error) {
	var user User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}

	if !user.Active {
		return nil, fmt.Errorf("user account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid password")
	}

	now := time.Now()
	user.LastLogin = &now
	db.Model(&User{}).Where("id = ?", user.ID).Update("last_login", &now)

	return &user, nil
}

// Backup copies the SQLite database file to dst. It returns an error
// for non-file backends; Postgres deployments are expected to use their
// own dump tooling.
func Backup(driver, dsn, dst string) error {
	if driver != DriverSQLite && driver != "" {
		return fmt.Errorf("backup is only supported for the sqlite driver")
	}
	if dsn == "" || dsn == ":memory:" {
		return fmt.Errorf("backup is not supported for in-memory databases")
	}

	src, err := os.Open(dsn)
	if err != nil {
		return fmt.Errorf("failed to open database file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to copy database file: %w", err)
	}
	return nil
}
