package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/klothoplatform/archdiagram/pkg/server"
	"github.com/pkg/browser"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var open bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram generation API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gen, err := newGenerator(ctx, cfg)
			if err != nil {
				return err
			}

			opts := server.DefaultOptions()
			opts.Addr = cfg.Server.Addr
			opts.AllowedOrigins = cfg.Server.AllowedOrigins
			opts.MaxBodyBytes = cfg.Server.MaxBodyBytes
			opts.Version = version
			srv := server.New(gen, opts, zap.L())

			l, err := net.Listen("tcp", opts.Addr)
			if err != nil {
				return errors.Wrapf(err, "could not listen on %s", opts.Addr)
			}
			if open {
				url := healthURL(l.Addr())
				if err := browser.OpenURL(url); err != nil {
					zap.L().Warn("Could not open browser", zap.String("url", url), zap.Error(err))
				}
			}
			return srv.Serve(ctx, l)
		},
	}
	cfgFlags.RegisterServer(cmd.Flags())
	cmd.Flags().BoolVar(&open, "open", false, "Open the health endpoint in a browser once listening")
	return cmd
}

func healthURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String() + server.HealthPath
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(host, port), server.HealthPath)
}
