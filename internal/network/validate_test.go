package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateChild(t *testing.T) {
	t.Run("should accept pool under address pool", func(t *testing.T) {
		err := ValidateChild(LevelPool, LevelAddressPool, mustPrefix(t, "10.0.0.0/16"), 24)
		assert.NoError(t, err)
	})

	t.Run("should accept subnet under pool", func(t *testing.T) {
		err := ValidateChild(LevelSubnet, LevelPool, mustPrefix(t, "10.0.128.0/24"), 28)
		assert.NoError(t, err)
	})

	t.Run("should accept host sized child", func(t *testing.T) {
		err := ValidateChild(LevelSubnet, LevelPool, mustPrefix(t, "10.0.128.0/24"), 32)
		assert.NoError(t, err)
	})

	t.Run("should reject prefix beyond family width", func(t *testing.T) {
		err := ValidateChild(LevelPool, LevelAddressPool, mustPrefix(t, "10.0.0.0/16"), 40)
		assert.ErrorIs(t, err, ErrInvalidPrefix)
	})

	t.Run("should reject negative prefix", func(t *testing.T) {
		err := ValidateChild(LevelPool, LevelAddressPool, mustPrefix(t, "10.0.0.0/16"), -1)
		assert.ErrorIs(t, err, ErrInvalidPrefix)
	})

	t.Run("should reject equal specificity", func(t *testing.T) {
		err := ValidateChild(LevelPool, LevelAddressPool, mustPrefix(t, "10.0.0.0/16"), 16)
		assert.ErrorIs(t, err, ErrPrefixNotMoreSpecific)
	})

	t.Run("should reject less specific child", func(t *testing.T) {
		err := ValidateChild(LevelPool, LevelAddressPool, mustPrefix(t, "10.0.0.0/16"), 8)
		assert.ErrorIs(t, err, ErrPrefixNotMoreSpecific)
	})

	t.Run("should reject subnet directly under address pool", func(t *testing.T) {
		err := ValidateChild(LevelSubnet, LevelAddressPool, mustPrefix(t, "10.0.0.0/16"), 28)
		assert.ErrorIs(t, err, ErrInvalidHierarchyLevel)
	})

	t.Run("should reject pool under pool", func(t *testing.T) {
		err := ValidateChild(LevelPool, LevelPool, mustPrefix(t, "10.0.128.0/24"), 28)
		assert.ErrorIs(t, err, ErrInvalidHierarchyLevel)
	})

	t.Run("should reject address pool as child", func(t *testing.T) {
		err := ValidateChild(LevelAddressPool, LevelAddressPool, mustPrefix(t, "10.0.0.0/8"), 16)
		assert.ErrorIs(t, err, ErrInvalidHierarchyLevel)
	})

	t.Run("should check prefix bounds before hierarchy", func(t *testing.T) {
		err := ValidateChild(LevelSubnet, LevelAddressPool, mustPrefix(t, "10.0.0.0/16"), 99)
		assert.ErrorIs(t, err, ErrInvalidPrefix)
	})

	t.Run("should use the ipv6 family width", func(t *testing.T) {
		err := ValidateChild(LevelPool, LevelAddressPool, mustPrefix(t, "2001:db8::/32"), 48)
		assert.NoError(t, err)
		err = ValidateChild(LevelPool, LevelAddressPool, mustPrefix(t, "2001:db8::/32"), 129)
		assert.ErrorIs(t, err, ErrInvalidPrefix)
	})
}
