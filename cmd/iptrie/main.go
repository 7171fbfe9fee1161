// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

// Command iptrie builds, queries and benchmarks longest-prefix-match
// tables from a plain-text prefix-list file, one CIDR per line.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "iptrie",
	Short: "Build, query and benchmark longest-prefix-match tables",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		initLogger()
	},
}

func initLogger() {
	ll, err := log.ParseLevel(logLevel)
	if err != nil {
		ll = log.InfoLevel
	}
	log.SetLevel(ll)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: false})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file overriding fill/kmax defaults")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warning, error")

	rootCmd.AddCommand(buildCmd, lookupCmd, benchCmd, dotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
