package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newQuickstartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quickstart",
		Short: "Show a getting-started walkthrough",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(`Getting started:

  1. ipam addresspool create main 10.0.0.0/16
  2. ipam vpc create prod
  3. ipam pool create web -a main -v prod -p 24
  4. ipam subnet create frontend -P web -v prod -p 27
  5. ipam subnet create backend -P web -v prod -p 27
  6. ipam report
`)
		},
	}
}
