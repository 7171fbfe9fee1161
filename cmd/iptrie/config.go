// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Orange-OpenSource/iptrie/internal/lctrie"
)

// buildConfig holds the compression knobs overridable from a YAML config
// file, defaulting to the library's own recommended fill-factor heuristic.
type buildConfig struct {
	Fill float64 `yaml:"fill"`
	KMax uint8   `yaml:"kmax"`
}

func defaultBuildConfig() buildConfig {
	opts := lctrie.NewOptions()
	return buildConfig{Fill: opts.Fill, KMax: opts.KMax}
}

func (c buildConfig) toOptions() lctrie.Options {
	return lctrie.Options{Fill: c.Fill, KMax: c.KMax}
}

// loadBuildConfig reads path if non-empty, overlaying its fields onto the
// library defaults; a missing --config flag is not an error.
func loadBuildConfig(path string) (buildConfig, error) {
	cfg := defaultBuildConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	log.WithFields(log.Fields{"fill": cfg.Fill, "kmax": cfg.KMax}).Debug("loaded build config")
	return cfg, nil
}
