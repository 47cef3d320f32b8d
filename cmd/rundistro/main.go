// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

// Command rundistro materializes a disposable base directory for a Jetty
// distribution and runs a webapp in it as a child process.
package main

import (
	"flag"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jettyproject/rundistro/internal/cache"
	"github.com/jettyproject/rundistro/internal/httpx"
	"github.com/jettyproject/rundistro/pkg/registry/maven"
	"github.com/jettyproject/rundistro/pkg/resolve"
	"github.com/jettyproject/rundistro/pkg/run"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// version is the tool's own version, also used to pin the distribution
// archive when the config does not name one. Overridden at build time.
var version = "0.0.0-dev"

var (
	configPath = flag.String("config", "rundistro.yaml", "Path to the run configuration file (YAML or TOML).")
	home       = flag.String("home", "", "Explicit distribution directory; overrides the config file.")
	distVer    = flag.String("distro-version", "", "Distribution version; overrides the config file.")
	buildDir   = flag.String("build-dir", "", "Build output directory; overrides the config file.")
	java       = flag.String("java", "", "Interpreter used to spawn the server; overrides the config file.")
	progress   = flag.Bool("progress", true, "Show a progress bar on artifact downloads.")
)

var yellow = color.New(color.FgYellow).SprintFunc()

var rootCmd = &cobra.Command{
	Use:   "rundistro [subcommand]",
	Short: "Run a webapp in a locally installed Jetty distribution",
}

var runCmd = &cobra.Command{
	Use:           "run [-config rundistro.yaml]",
	Short:         "Synthesize a base directory and launch the server against it.",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		if *home != "" {
			cfg.Run.Home = *home
		}
		if *distVer != "" {
			cfg.Run.Version = *distVer
		}
		if *buildDir != "" {
			cfg.Run.BuildDir = *buildDir
		}
		if *java != "" {
			cfg.Run.Java = *java
		}
		if cfg.Run.Version == "" {
			cfg.Run.Version = version
			cmd.PrintErrln(yellow("NOTE:"), "distribution version defaulting to", version)
		}
		if cfg.Run.BuildDir == "" {
			cfg.Run.BuildDir = "target"
		}
		if cfg.CacheDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return errors.Wrap(err, "locating artifact cache")
			}
			cfg.CacheDir = filepath.Join(homeDir, ".m2", "repository")
		}
		if err := cfg.absolutize(); err != nil {
			return err
		}

		client := httpx.NewCachedClient(
			&httpx.WithUserAgent{BasicClient: http.DefaultClient, UserAgent: "rundistro/" + version},
			&cache.CoalescingMemoryCache{})
		var repos []maven.Repository
		for _, raw := range cfg.Repositories {
			u, err := url.Parse(raw)
			if err != nil {
				return errors.Wrapf(err, "repository %q", raw)
			}
			repos = append(repos, maven.HTTPRepository{BaseURL: u, Client: client})
		}
		if len(repos) == 0 {
			repos = append(repos, maven.HTTPRepository{Client: client})
		}
		if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
			return errors.Wrap(err, "creating artifact cache")
		}

		self, err := run.SelfArtifact()
		if err != nil {
			return err
		}
		runner := &run.Runner{
			Config: cfg.Run,
			FS:     osfs.New("/"),
			Resolver: &resolve.Resolver{
				Cache:    osfs.New(cfg.CacheDir),
				Repos:    repos,
				Progress: *progress,
			},
			SelfArtifact: self,
		}
		return runner.Run(cmd.Context())
	},
}

func init() {
	runCmd.Flags().AddGoFlag(flag.Lookup("config"))
	runCmd.Flags().AddGoFlag(flag.Lookup("home"))
	runCmd.Flags().AddGoFlag(flag.Lookup("distro-version"))
	runCmd.Flags().AddGoFlag(flag.Lookup("build-dir"))
	runCmd.Flags().AddGoFlag(flag.Lookup("java"))
	runCmd.Flags().AddGoFlag(flag.Lookup("progress"))
	rootCmd.AddCommand(runCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
