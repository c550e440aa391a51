package main

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagEnvFile  string
	flagInterval int
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:   "dyndns",
	Short: "keep DNS records pointed at this machine's public IP address",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func Execute() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "dyndns.yaml", "path to the record configuration file")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "optional .env file with token overrides")
	rootCmd.PersistentFlags().IntVarP(&flagInterval, "interval", "r", 30, "seconds between public IP checks")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "enable verbose logging")

	rootCmd.AddCommand(runCommand())
	rootCmd.AddCommand(updateCommand())
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

const logFileName = "output.log"

// setupLogging mirrors everything to a log file next to the binary so the
// daemon's history survives the console session.
func setupLogging() {
	if flagDebug {
		log.SetLevel(log.DebugLevel)
	}

	f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		log.Warnf("Unable to open %s, logging to console only: %s", logFileName, err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
}
