// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package main

import (
	"math/rand/v2"
	"net/netip"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Orange-OpenSource/iptrie"
)

var benchProbes int

var benchCmd = &cobra.Command{
	Use:   "bench <prefix-file>",
	Short: "Compare mutable and compressed lookup throughput on a prefix-list file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchProbes, "probes", 1_000_000, "number of random address lookups to time")
}

func runBench(_ *cobra.Command, args []string) error {
	pfxs, err := loadPrefixFile(args[0])
	if err != nil {
		return err
	}

	tbl := iptrie.NewTableMixed[struct{}]()
	for _, p := range pfxs {
		tbl.Insert(p, struct{}{})
	}
	log.WithField("count", tbl.Len()).Info("built mutable table")

	ct := tbl.Compress()
	log.WithField("stats", ct.Stats()).Info("built compressed snapshot")

	prng := rand.New(rand.NewPCG(42, 42))
	probes := make([]netip.Addr, benchProbes)
	for i := range probes {
		probes[i] = randomProbeAddr(prng)
	}

	start := time.Now()
	for _, a := range probes {
		tbl.Lookup(a)
	}
	mutableElapsed := time.Since(start)

	start = time.Now()
	for _, a := range probes {
		ct.Lookup(a)
	}
	compressedElapsed := time.Since(start)

	log.WithFields(log.Fields{
		"probes":             len(probes),
		"mutable_total":      mutableElapsed,
		"mutable_per_op":     mutableElapsed / time.Duration(len(probes)),
		"compressed_total":   compressedElapsed,
		"compressed_per_op":  compressedElapsed / time.Duration(len(probes)),
	}).Info("lookup benchmark")

	return nil
}

// randomProbeAddr generates a uniformly random IPv4 or IPv6 address.
func randomProbeAddr(prng *rand.Rand) netip.Addr {
	if prng.IntN(2) == 1 {
		var b [4]byte
		for i := range b {
			b[i] = byte(prng.UintN(256))
		}
		return netip.AddrFrom4(b)
	}
	var b [16]byte
	for i := range b {
		b[i] = byte(prng.UintN(256))
	}
	return netip.AddrFrom16(b)
}
