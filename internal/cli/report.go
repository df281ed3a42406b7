package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maclarensg/ipam2/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the utilization report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			r, err := svc.Report()
			if err != nil {
				return err
			}
			fmt.Print(report.Render(r))
			return nil
		},
	}
}
