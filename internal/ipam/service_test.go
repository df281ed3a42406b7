package ipam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maclarensg/ipam2/internal/database"
	"github.com/maclarensg/ipam2/internal/network"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	return New(db)
}

func TestCreateAddressPool(t *testing.T) {
	t.Run("should canonicalize the stored cidr", func(t *testing.T) {
		svc := setupService(t)

		pool, err := svc.CreateAddressPool("main", "10.0.0.5/8")
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.0/8", pool.CIDR)
	})

	t.Run("should reject malformed cidr", func(t *testing.T) {
		svc := setupService(t)

		_, err := svc.CreateAddressPool("bad", "10.0.0.0/40")
		assert.ErrorIs(t, err, ErrInvalidCIDR)
	})

	t.Run("should reject duplicate names", func(t *testing.T) {
		svc := setupService(t)

		_, err := svc.CreateAddressPool("main", "10.0.0.0/8")
		require.NoError(t, err)

		_, err = svc.CreateAddressPool("main", "172.16.0.0/12")
		assert.ErrorIs(t, err, ErrDuplicateName)
	})
}

func TestDeleteAddressPool(t *testing.T) {
	t.Run("should delete an empty pool", func(t *testing.T) {
		svc := setupService(t)

		_, err := svc.CreateAddressPool("main", "10.0.0.0/8")
		require.NoError(t, err)

		require.NoError(t, svc.DeleteAddressPool("main"))
		_, err = svc.GetAddressPool("main")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should refuse while pools remain", func(t *testing.T) {
		svc := setupService(t)

		_, err := svc.CreateAddressPool("main", "10.0.0.0/16")
		require.NoError(t, err)
		_, err = svc.CreateVPC("prod")
		require.NoError(t, err)
		_, err = svc.CreatePool("web", "main", "prod", 24)
		require.NoError(t, err)

		assert.ErrorIs(t, svc.DeleteAddressPool("main"), ErrNotEmpty)
	})

	t.Run("should report unknown names", func(t *testing.T) {
		svc := setupService(t)

		assert.ErrorIs(t, svc.DeleteAddressPool("missing"), ErrNotFound)
	})
}

func TestCreatePool(t *testing.T) {
	seed := func(t *testing.T) *Service {
		svc := setupService(t)
		_, err := svc.CreateAddressPool("main", "10.0.0.0/16")
		require.NoError(t, err)
		_, err = svc.CreateVPC("prod")
		require.NoError(t, err)
		return svc
	}

	t.Run("should allocate the lowest free range first", func(t *testing.T) {
		svc := seed(t)

		pool, err := svc.CreatePool("web", "main", "prod", 24)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.0/24", pool.CIDR)

		pool, err = svc.CreatePool("db", "main", "prod", 24)
		require.NoError(t, err)
		assert.Equal(t, "10.0.1.0/24", pool.CIDR)
	})

	t.Run("should reuse a freed range", func(t *testing.T) {
		svc := seed(t)

		_, err := svc.CreatePool("web", "main", "prod", 24)
		require.NoError(t, err)
		_, err = svc.CreatePool("db", "main", "prod", 24)
		require.NoError(t, err)

		require.NoError(t, svc.DeletePool("web", "prod"))

		pool, err := svc.CreatePool("cache", "main", "prod", 24)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.0/24", pool.CIDR)
	})

	t.Run("should reject a prefix no longer than the parent", func(t *testing.T) {
		svc := seed(t)

		_, err := svc.CreatePool("web", "main", "prod", 16)
		assert.ErrorIs(t, err, network.ErrPrefixNotMoreSpecific)
	})

	t.Run("should fail once the parent is exhausted", func(t *testing.T) {
		svc := setupService(t)
		_, err := svc.CreateAddressPool("tiny", "10.1.0.0/23")
		require.NoError(t, err)
		_, err = svc.CreateVPC("prod")
		require.NoError(t, err)

		_, err = svc.CreatePool("a", "tiny", "prod", 24)
		require.NoError(t, err)
		_, err = svc.CreatePool("b", "tiny", "prod", 24)
		require.NoError(t, err)

		_, err = svc.CreatePool("c", "tiny", "prod", 24)
		assert.ErrorIs(t, err, network.ErrAddressSpaceExhausted)
	})

	t.Run("should report unknown parent or vpc", func(t *testing.T) {
		svc := seed(t)

		_, err := svc.CreatePool("web", "missing", "prod", 24)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = svc.CreatePool("web", "main", "missing", 24)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should reject duplicate names inside one vpc only", func(t *testing.T) {
		svc := seed(t)
		_, err := svc.CreateVPC("dev")
		require.NoError(t, err)

		_, err = svc.CreatePool("web", "main", "prod", 24)
		require.NoError(t, err)

		_, err = svc.CreatePool("web", "main", "prod", 24)
		assert.ErrorIs(t, err, ErrDuplicateName)

		// Same name in another VPC is fine.
		_, err = svc.CreatePool("web", "main", "dev", 24)
		assert.NoError(t, err)
	})
}

func TestCreateSubnet(t *testing.T) {
	seed := func(t *testing.T) *Service {
		svc := setupService(t)
		_, err := svc.CreateAddressPool("main", "10.0.0.0/16")
		require.NoError(t, err)
		_, err = svc.CreateVPC("prod")
		require.NoError(t, err)
		_, err = svc.CreatePool("web", "main", "prod", 24)
		require.NoError(t, err)
		return svc
	}

	t.Run("should allocate inside the pool range", func(t *testing.T) {
		svc := seed(t)

		subnet, err := svc.CreateSubnet("web-a", "web", "prod", 27)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.0/27", subnet.CIDR)

		subnet, err = svc.CreateSubnet("web-b", "web", "prod", 27)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.32/27", subnet.CIDR)
	})

	t.Run("should place a larger subnet past smaller siblings", func(t *testing.T) {
		svc := seed(t)

		_, err := svc.CreateSubnet("small", "web", "prod", 27)
		require.NoError(t, err)

		subnet, err := svc.CreateSubnet("large", "web", "prod", 26)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.64/26", subnet.CIDR)
	})

	t.Run("should report unknown pool", func(t *testing.T) {
		svc := seed(t)

		_, err := svc.CreateSubnet("web-a", "missing", "prod", 27)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteVPC(t *testing.T) {
	t.Run("should cascade to pools and subnets", func(t *testing.T) {
		svc := setupService(t)
		_, err := svc.CreateAddressPool("main", "10.0.0.0/16")
		require.NoError(t, err)
		_, err = svc.CreateVPC("prod")
		require.NoError(t, err)
		_, err = svc.CreatePool("web", "main", "prod", 24)
		require.NoError(t, err)
		_, err = svc.CreateSubnet("web-a", "web", "prod", 27)
		require.NoError(t, err)

		require.NoError(t, svc.DeleteVPC("prod"))

		// With the VPC gone the address pool is empty again.
		require.NoError(t, svc.DeleteAddressPool("main"))
	})
}

func TestReport(t *testing.T) {
	t.Run("should aggregate utilization per level", func(t *testing.T) {
		svc := setupService(t)
		_, err := svc.CreateAddressPool("main", "10.0.0.0/16")
		require.NoError(t, err)
		_, err = svc.CreateVPC("prod")
		require.NoError(t, err)
		_, err = svc.CreatePool("web", "main", "prod", 24)
		require.NoError(t, err)
		_, err = svc.CreateSubnet("web-a", "web", "prod", 25)
		require.NoError(t, err)

		report, err := svc.Report()
		require.NoError(t, err)
		require.Len(t, report.AddressPools, 1)

		ap := report.AddressPools[0]
		assert.Equal(t, "main", ap.Name)
		assert.InDelta(t, 0.4, ap.Utilization.PercentUsed, 0.001)

		require.Len(t, ap.VPCs, 1)
		require.Len(t, ap.VPCs[0].Pools, 1)
		pool := ap.VPCs[0].Pools[0]
		assert.Equal(t, "web", pool.Name)
		assert.InDelta(t, 50.0, pool.Utilization.PercentUsed, 0.001)
		require.Len(t, pool.Subnets, 1)
		assert.Equal(t, "web-a", pool.Subnets[0].Name)
	})

	t.Run("should return an empty report for an empty store", func(t *testing.T) {
		svc := setupService(t)

		report, err := svc.Report()
		require.NoError(t, err)
		assert.Empty(t, report.AddressPools)
	})
}
