package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maclarensg/ipam2/internal/network"
)

// IPv4 subnets default to /27 and are kept between /24 and /32.
const (
	defaultSubnetBits = 27
	minSubnetBits     = 24
	maxSubnetBits     = 32
)

func newSubnetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subnet",
		Short: "Manage subnets carved out of pools",
	}

	var (
		poolName     string
		vpcName      string
		prefixLength int
	)

	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Allocate a new subnet range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			parent, err := svc.GetPool(poolName, vpcName)
			if err != nil {
				return err
			}
			parentRange, err := parent.Prefix()
			if err != nil {
				return err
			}
			if parentRange.Addr().Is4() && (prefixLength < minSubnetBits || prefixLength > maxSubnetBits) {
				return fmt.Errorf("%w: subnet prefix must be between /%d and /%d",
					network.ErrInvalidPrefix, minSubnetBits, maxSubnetBits)
			}

			subnet, err := svc.CreateSubnet(args[0], poolName, vpcName, prefixLength)
			if err != nil {
				return err
			}
			fmt.Printf("Created subnet %s (%s) in VPC %s\n", subnet.Name, subnet.CIDR, vpcName)
			return nil
		},
	}
	create.Flags().StringVarP(&poolName, "pool", "P", "", "pool to allocate from")
	create.Flags().StringVarP(&vpcName, "vpc", "v", "", "VPC the subnet belongs to")
	create.Flags().IntVarP(&prefixLength, "prefix-length", "p", defaultSubnetBits, "prefix length of the new subnet")
	_ = create.MarkFlagRequired("pool")
	_ = create.MarkFlagRequired("vpc")

	list := &cobra.Command{
		Use:   "list",
		Short: "List subnets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			subnets, err := svc.ListSubnets()
			if err != nil {
				return err
			}
			if len(subnets) == 0 {
				fmt.Println("No subnets defined.")
				return nil
			}
			fmt.Printf("%-20s %s\n", "NAME", "CIDR")
			for _, s := range subnets {
				fmt.Printf("%-20s %s\n", s.Name, s.CIDR)
			}
			return nil
		},
	}

	var delVPC string
	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a subnet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.DeleteSubnet(args[0], delVPC); err != nil {
				return err
			}
			fmt.Printf("Deleted subnet %s from VPC %s\n", args[0], delVPC)
			return nil
		},
	}
	del.Flags().StringVarP(&delVPC, "vpc", "v", "", "VPC the subnet belongs to")
	_ = del.MarkFlagRequired("vpc")

	cmd.AddCommand(create, list, del)
	return cmd
}
