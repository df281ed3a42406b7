package cli

import (
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/maclarensg/ipam2/internal/api"
	"github.com/maclarensg/ipam2/internal/auth"
)

func newServeCmd(a *app) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.service(); err != nil {
				return err
			}

			secret := a.cfg.Server.JWTSecret
			if secret == "" {
				generated, err := auth.GenerateSecureSecret()
				if err != nil {
					return err
				}
				secret = generated
				log.Warn("no jwt secret configured, generated an ephemeral one; tokens will not survive a restart")
			}

			addr := listenAddr
			if addr == "" {
				addr = a.cfg.Server.ListenAddr
			}

			gin.SetMode(gin.ReleaseMode)
			server := api.NewServer(a.db, secret)
			log.Info("starting API server", "addr", addr)
			return server.Router().Run(addr)
		},
	}

	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "listen address, overrides the config")
	return cmd
}
