// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Orange-OpenSource/iptrie"
)

var dotOutput string

var dotCmd = &cobra.Command{
	Use:   "dot <prefix-file>",
	Short: "Render a prefix-list file's trie structure as Graphviz DOT",
	Args:  cobra.ExactArgs(1),
	RunE:  runDot,
}

func init() {
	dotCmd.Flags().StringVar(&dotOutput, "out", "", "output file (default: stdout)")
}

func runDot(_ *cobra.Command, args []string) error {
	pfxs, err := loadPrefixFile(args[0])
	if err != nil {
		return err
	}

	tbl := iptrie.NewTableMixed[struct{}]()
	for _, p := range pfxs {
		tbl.Insert(p, struct{}{})
	}

	w := os.Stdout
	if dotOutput != "" {
		f, err := os.Create(dotOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := tbl.DumpDOT(f); err != nil {
			return err
		}
		log.WithField("path", dotOutput).Info("wrote DOT file")
		return nil
	}

	return tbl.DumpDOT(w)
}
