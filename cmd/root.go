// Package cmd is the topofab command-line front end: a cobra.Command tree
// that loads a YAML network configuration, builds a topology (and
// optionally a routing) through the plug-aware builders in package topo,
// and reports on or drives it. It is the only layer allowed to turn a
// panic from the core into a clean non-zero exit.
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "topofab",
	Short: "Interconnection-network topology and routing toolkit",
}

// Execute runs the root command, converting any panic raised by the topo or
// config packages into a logged fatal error instead of a bare crash.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			logrus.Fatalf("topofab: %v", r)
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	cobra.OnInitialize(func() {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	})
}
