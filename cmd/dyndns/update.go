package main

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func updateCommand() *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "run a single update cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flagConfig, flagEnvFile)
			if err != nil {
				return err
			}
			if err := cfg.ensureDNSToken(); err != nil {
				return err
			}
			cfg.debugDump()

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := client.RunOnce(ctx); err != nil {
				return err
			}
			log.Info("All DNS entries are up to date")
			return nil
		},
	}
	return updateCmd
}
