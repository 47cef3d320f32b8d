// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jettyproject/rundistro/pkg/run"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk configuration surface, YAML or TOML by extension.
type fileConfig struct {
	Run run.Config `yaml:"run" toml:"run"`
	// Repositories are remote repository base URLs, tried in order.
	Repositories []string `yaml:"repositories" toml:"repositories"`
	// CacheDir is the local artifact cache; ~/.m2/repository when empty.
	CacheDir string `yaml:"cacheDir" toml:"cacheDir"`
}

func loadConfig(path string) (*fileConfig, error) {
	var cfg fileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	default:
		return nil, errors.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &cfg, nil
}

// absolutize rewrites the config's path fields to absolute paths so they
// remain valid once the child process runs from the base directory.
func (c *fileConfig) absolutize() error {
	for _, p := range []*string{
		&c.Run.Home, &c.Run.TemplateBase, &c.Run.BuildDir, &c.Run.ContextXML,
		&c.Run.WebApp.War, &c.Run.WebApp.Classes, &c.Run.WebApp.TestClasses,
		&c.Run.WebApp.ContextXML, &c.Run.WebApp.TempDir, &c.CacheDir,
	} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return errors.Wrapf(err, "resolving %s", *p)
		}
		*p = abs
	}
	return nil
}
