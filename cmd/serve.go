package cmd

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/scorecard/internal/auth"
	"github.com/abhisek/scorecard/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the plan API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		addr := d.cfg.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}
		if d.cfg.LogEnv == "production" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var opts []server.Option
		if d.cfg.JWTSecret != "" {
			tokens, err := auth.NewJWTService(d.cfg.JWTSecret, d.cfg.TokenTTL)
			if err != nil {
				return err
			}
			opts = append(opts, server.WithAuth(tokens))
		} else {
			d.logger.Warn("server.jwt_secret not set, API is unauthenticated")
		}

		return server.New(d.planner, d.store.EventRepo(), d.logger, opts...).Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
