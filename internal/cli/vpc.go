package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVPCCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vpc",
		Short: "Manage VPCs",
	}

	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Register a new VPC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			vpc, err := svc.CreateVPC(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created VPC %s\n", vpc.Name)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List VPCs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			vpcs, err := svc.ListVPCs()
			if err != nil {
				return err
			}
			if len(vpcs) == 0 {
				fmt.Println("No VPCs defined.")
				return nil
			}
			fmt.Printf("%-20s %-8s %s\n", "NAME", "POOLS", "SUBNETS")
			for _, v := range vpcs {
				fmt.Printf("%-20s %-8d %d\n", v.Name, len(v.Pools), len(v.Subnets))
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a VPC and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.DeleteVPC(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted VPC %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(create, list, del)
	return cmd
}
