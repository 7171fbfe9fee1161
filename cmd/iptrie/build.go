// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Orange-OpenSource/iptrie"
)

var buildCompress bool

var buildCmd = &cobra.Command{
	Use:   "build <prefix-file>",
	Short: "Load a prefix-list file into a table and report its footprint",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildCompress, "compress", false, "also build the frozen LC-trie snapshot and report its footprint")
}

func runBuild(cmd *cobra.Command, args []string) error {
	pfxs, err := loadPrefixFile(args[0])
	if err != nil {
		return err
	}
	log.WithField("count", len(pfxs)).Info("loaded prefixes")

	tbl := iptrie.NewTableMixed[struct{}]()
	for _, p := range pfxs {
		if _, _, err := tbl.Insert(p, struct{}{}); err != nil {
			log.WithError(err).WithField("prefix", p).Warn("skipped invalid prefix")
		}
	}
	log.WithField("count", tbl.Len()).Info("built table")

	if buildCompress {
		cfg, err := loadBuildConfig(cfgFile)
		if err != nil {
			return err
		}
		opts := cfg.toOptions()
		ct := tbl.CompressWith(opts)
		stats := ct.Stats()
		log.WithFields(log.Fields{"nodes": stats.Nodes, "leaves": stats.Leaves}).Info("compressed table")
	}

	return nil
}
