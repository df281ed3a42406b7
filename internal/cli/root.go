// Package cli implements the ipam command line interface. Commands are
// grouped per resource (addresspool, vpc, pool, subnet) with create,
// list and delete verbs, plus report, backup, user and serve.
//
// Exit codes distinguish failure classes: 2 for rejected input
// (invalid prefixes, hierarchy violations, exhausted space, unknown or
// duplicate names), 1 for configuration and I/O failures.
package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/maclarensg/ipam2/internal/config"
	"github.com/maclarensg/ipam2/internal/database"
	"github.com/maclarensg/ipam2/internal/ipam"
	"github.com/maclarensg/ipam2/internal/network"
)

// app carries the shared state of one CLI invocation. The database is
// opened lazily so commands that never touch it (help, completion) do
// not require one.
type app struct {
	cfgPath string
	cfg     *config.Config
	db      *database.Database
	svc     *ipam.Service
}

func (a *app) service() (*ipam.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	db, err := database.Open(a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.svc = ipam.New(db)
	return a.svc, nil
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ipam",
		Short:         "Hierarchical IP address management",
		Long:          "ipam manages IPv4 and IPv6 address space as a hierarchy of address pools, VPCs, pools and subnets, allocating ranges automatically with a best-fit strategy.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			level, err := log.ParseLevel(cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
			}
			log.SetLevel(level)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to the config file")

	root.AddCommand(
		newAddressPoolCmd(a),
		newVPCCmd(a),
		newPoolCmd(a),
		newSubnetCmd(a),
		newReportCmd(a),
		newBackupCmd(a),
		newUserCmd(a),
		newServeCmd(a),
		newQuickstartCmd(),
	)

	return root
}

// Execute runs the CLI and maps errors to exit codes.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		log.Error(err)
		if isUserError(err) {
			return 2
		}
		return 1
	}
	return 0
}

func isUserError(err error) bool {
	for _, target := range []error{
		network.ErrInvalidPrefix,
		network.ErrPrefixNotMoreSpecific,
		network.ErrInvalidHierarchyLevel,
		network.ErrAddressSpaceExhausted,
		network.ErrFamilyMismatch,
		ipam.ErrNotFound,
		ipam.ErrDuplicateName,
		ipam.ErrNotEmpty,
		ipam.ErrInvalidCIDR,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
