package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/maclarensg/ipam2/internal/database"
)

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage database backups",
	}

	var output string
	create := &cobra.Command{
		Use:   "create",
		Short: "Back up the sqlite database to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dst := output
			if dst == "" {
				dst = fmt.Sprintf("ipam-backup-%s.db", time.Now().Format("20060102-150405"))
			}
			if err := database.Backup(a.cfg.Database.Driver, a.cfg.Database.DSN, dst); err != nil {
				return err
			}
			fmt.Printf("Backup written to %s\n", dst)
			return nil
		},
	}
	create.Flags().StringVarP(&output, "output", "o", "", "backup file path")

	cmd.AddCommand(create)
	return cmd
}
