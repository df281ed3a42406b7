package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maclarensg/ipam2/internal/network"
)

// IPv4 pools default to /24 and are kept between /22 and /30.
const (
	defaultPoolBits = 24
	minPoolBits     = 22
	maxPoolBits     = 30
)

func newPoolCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Manage pools carved out of address pools",
	}

	var (
		addressPool  string
		vpcName      string
		prefixLength int
	)

	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Allocate a new pool range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			parent, err := svc.GetAddressPool(addressPool)
			if err != nil {
				return err
			}
			parentRange, err := parent.Prefix()
			if err != nil {
				return err
			}
			if parentRange.Addr().Is4() && (prefixLength < minPoolBits || prefixLength > maxPoolBits) {
				return fmt.Errorf("%w: pool prefix must be between /%d and /%d",
					network.ErrInvalidPrefix, minPoolBits, maxPoolBits)
			}

			pool, err := svc.CreatePool(args[0], addressPool, vpcName, prefixLength)
			if err != nil {
				return err
			}
			fmt.Printf("Created pool %s (%s) in VPC %s\n", pool.Name, pool.CIDR, vpcName)
			return nil
		},
	}
	create.Flags().StringVarP(&addressPool, "addresspool", "a", "", "address pool to allocate from")
	create.Flags().StringVarP(&vpcName, "vpc", "v", "", "VPC the pool belongs to")
	create.Flags().IntVarP(&prefixLength, "prefix-length", "p", defaultPoolBits, "prefix length of the new pool")
	_ = create.MarkFlagRequired("addresspool")
	_ = create.MarkFlagRequired("vpc")

	list := &cobra.Command{
		Use:   "list",
		Short: "List pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			pools, err := svc.ListPools()
			if err != nil {
				return err
			}
			if len(pools) == 0 {
				fmt.Println("No pools defined.")
				return nil
			}
			fmt.Printf("%-20s %-20s %s\n", "NAME", "CIDR", "SUBNETS")
			for _, p := range pools {
				fmt.Printf("%-20s %-20s %d\n", p.Name, p.CIDR, len(p.Subnets))
			}
			return nil
		},
	}

	var delVPC string
	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a pool and its subnets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.DeletePool(args[0], delVPC); err != nil {
				return err
			}
			fmt.Printf("Deleted pool %s from VPC %s\n", args[0], delVPC)
			return nil
		},
	}
	del.Flags().StringVarP(&delVPC, "vpc", "v", "", "VPC the pool belongs to")
	_ = del.MarkFlagRequired("vpc")

	cmd.AddCommand(create, list, del)
	return cmd
}
