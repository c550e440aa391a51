package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tsweeney/dyndns"
)

func runCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "poll for public IP changes and update DNS records until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Infof("DNS entry auto update tool %s", version)

			cfg, err := loadConfig(flagConfig, flagEnvFile)
			if err != nil {
				return err
			}
			if err := cfg.ensureDNSToken(); err != nil {
				return err
			}
			log.Info("Loaded DNS entry configuration")
			cfg.debugDump()

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Infof("Checking public IP address every %d seconds", flagInterval)
			if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info("Shutting down")
			return nil
		},
	}
	return runCmd
}

func newClient(cfg *Config) (*dyndns.Client, error) {
	updater := dyndns.UsingEndpoint(cfg.RecordURL, cfg.DNSToken)
	if cfg.ZoneID != "" {
		updater = dyndns.UsingCloudflare(cfg.DNSToken, cfg.ZoneID)
	}

	return dyndns.New(cfg.records(),
		updater,
		dyndns.WithInterval(time.Duration(flagInterval)*time.Second),
		dyndns.WithVerbose(flagDebug),
		dyndns.WithLogger(log.StandardLogger()),
	)
}
