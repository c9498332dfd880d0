package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/schemalab/internal/api"
	"github.com/mesh-intelligence/schemalab/internal/config"
)

func newServeCmd(a *app) *cobra.Command {
	var host string
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the read-only sample API",
		Long:  "Serve /health, /products, /customers, and /orders (also under /api)\nuntil interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := serverOverrides(cmd.Flags(), a.cfg.Server, host, port)
			a.cfg.Server = cfg
			if err := a.cfg.Validate(); err != nil {
				return userError(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := api.NewServer(cfg, api.NewRouter(cfg, a.logger))
			if err := api.Run(ctx, srv, a.logger); err != nil {
				return sysError(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides server.port)")
	return cmd
}

// serverOverrides applies --host and --port on top of cfg when they were set.
func serverOverrides(fs *pflag.FlagSet, cfg config.ServerConfig, host string, port int) config.ServerConfig {
	if fs.Changed("host") {
		cfg.Host = host
	}
	if fs.Changed("port") {
		cfg.Port = port
	}
	return cfg
}
