package cli

import (
	"fmt"
	"net/netip"

	"github.com/spf13/cobra"

	"github.com/maclarensg/ipam2/internal/ipam"
	"github.com/maclarensg/ipam2/internal/network"
)

// IPv4 address pools are kept between /8 and /16 so they are large
// enough to carve pools from but never the whole address space.
const (
	minAddressPoolBits = 8
	maxAddressPoolBits = 16
)

func newAddressPoolCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "addresspool",
		Aliases: []string{"ap"},
		Short:   "Manage top-level address pools",
	}

	create := &cobra.Command{
		Use:   "create NAME CIDR",
		Short: "Register a new address pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, cidr := args[0], args[1]

			prefix, err := netip.ParsePrefix(cidr)
			if err != nil {
				return fmt.Errorf("%w: %s", ipam.ErrInvalidCIDR, cidr)
			}
			if prefix.Addr().Is4() && (prefix.Bits() < minAddressPoolBits || prefix.Bits() > maxAddressPoolBits) {
				return fmt.Errorf("%w: address pool prefix must be between /%d and /%d",
					network.ErrInvalidPrefix, minAddressPoolBits, maxAddressPoolBits)
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			pool, err := svc.CreateAddressPool(name, cidr)
			if err != nil {
				return err
			}
			fmt.Printf("Created address pool %s (%s)\n", pool.Name, pool.CIDR)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List address pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			pools, err := svc.ListAddressPools()
			if err != nil {
				return err
			}
			if len(pools) == 0 {
				fmt.Println("No address pools defined.")
				return nil
			}
			fmt.Printf("%-20s %-20s %s\n", "NAME", "CIDR", "POOLS")
			for _, p := range pools {
				fmt.Printf("%-20s %-20s %d\n", p.Name, p.CIDR, len(p.Pools))
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an empty address pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.DeleteAddressPool(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted address pool %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(create, list, del)
	return cmd
}
