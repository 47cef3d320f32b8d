// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

// Package run sequences a full launch: install the distribution, synthesize
// the base directory, and spawn the server against it.
package run

import (
	"context"
	"log"
	"os"
	"runtime"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/jettyproject/rundistro/pkg/base"
	"github.com/jettyproject/rundistro/pkg/distro"
	"github.com/jettyproject/rundistro/pkg/launch"
	"github.com/jettyproject/rundistro/pkg/registry/maven"
	"github.com/jettyproject/rundistro/pkg/resolve"
	"github.com/jettyproject/rundistro/pkg/webapp"
	"github.com/pkg/errors"
)

// BaseDirName is the synthesized base directory's name under the build dir.
const BaseDirName = "jetty-base"

// Config is the externally supplied configuration surface for one run.
type Config struct {
	// Home is an explicit distribution directory; auto-installed when empty.
	Home string `yaml:"home" toml:"home"`
	// TemplateBase is an existing base directory mirrored into the fresh one.
	TemplateBase string `yaml:"templateBase" toml:"templateBase"`
	// BuildDir receives the installed distribution and synthesized base.
	BuildDir string `yaml:"buildDir" toml:"buildDir"`
	// GroupID of the distribution; distro.DefaultGroupID when empty.
	GroupID string `yaml:"groupId" toml:"groupId"`
	// Version pins the distribution archive.
	Version string `yaml:"version" toml:"version"`
	// Java is the interpreter used to spawn the server.
	Java string `yaml:"java" toml:"java"`
	// Modules extend the baseline module set.
	Modules []string `yaml:"modules" toml:"modules"`
	// Properties are free-form launcher tokens, passed verbatim.
	Properties []string `yaml:"properties" toml:"properties"`
	// Dependencies are declared plugin dependencies; those outside the
	// distribution's own group become lib/ext extra libraries.
	Dependencies []maven.Coordinate `yaml:"dependencies" toml:"dependencies"`
	// ContextXML is the context configuration file excluded from the mirror.
	ContextXML string `yaml:"contextXml" toml:"contextXml"`
	// WebApp describes the webapp under development.
	WebApp webapp.WebApp `yaml:"webapp" toml:"webapp"`
}

// StartError is the single externally visible failure mode of a run,
// carrying the original cause.
type StartError struct {
	cause error
}

func (e *StartError) Error() string { return "failed to start jetty: " + e.cause.Error() }

// Cause supports github.com/pkg/errors cause chains.
func (e *StartError) Cause() error { return e.cause }

func (e *StartError) Unwrap() error { return e.cause }

// Runner orchestrates one launch. Runs are strictly sequential with no
// retries; a failed run may leave a half-populated base directory, which the
// next run's destroy step clears. Concurrent runs against one build dir are
// not supported.
type Runner struct {
	Config   Config
	FS       billy.Filesystem
	Resolver *resolve.Resolver
	// SelfArtifact is the running tool's own artifact, installed into the
	// base. See SelfArtifact().
	SelfArtifact string
	// Log receives diagnostics; log.Default() when nil.
	Log *log.Logger
	// Spawn overrides process spawning, for tests. launch.Run when nil.
	Spawn func(context.Context, launch.CommandSpec) error
}

// SelfArtifact returns the location of the running executable.
func SelfArtifact() (string, error) {
	p, err := os.Executable()
	return p, errors.Wrap(err, "locating own executable")
}

// Run executes the launch pipeline and blocks until the spawned server
// terminates. Any failure aborts the remaining steps and is wrapped once as
// a StartError. The server's exit code is not interpreted.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.run(ctx); err != nil {
		return &StartError{err}
	}
	return nil
}

func (r *Runner) run(ctx context.Context) error {
	logger := r.Log
	if logger == nil {
		logger = log.Default()
	}
	r.printDiagnostics(logger)

	groupID := r.Config.GroupID
	if groupID == "" {
		groupID = distro.DefaultGroupID
	}
	extraLibs := PartitionExtraLibs(r.Config.Dependencies, groupID, logger)

	home, err := distro.Ensure(ctx, r.Resolver, r.FS, distro.Options{
		Home:     r.Config.Home,
		GroupID:  groupID,
		Version:  r.Config.Version,
		BuildDir: r.Config.BuildDir,
	})
	if err != nil {
		return err
	}
	logger.Printf("jetty.home = %s", home)

	r.Config.WebApp.Finalize()

	baseDir := r.FS.Join(r.Config.BuildDir, BaseDirName)
	err = base.Synthesize(ctx, r.FS, r.Resolver, base.Options{
		Template:     r.Config.TemplateBase,
		ContextXML:   r.Config.ContextXML,
		Dir:          baseDir,
		SelfArtifact: r.SelfArtifact,
		ExtraLibs:    extraLibs,
		WebApp:       &r.Config.WebApp,
	})
	if err != nil {
		return err
	}
	logger.Printf("jetty.base = %s", baseDir)

	spec := launch.BuildCommand(launch.Options{
		Java:         r.Config.Java,
		Home:         home,
		BaseDir:      baseDir,
		Modules:      r.Config.Modules,
		HasExtraLibs: len(extraLibs) > 0,
		Properties:   r.Config.Properties,
	})
	logger.Printf("starting: %s %s", spec.Path, strings.Join(spec.Args, " "))

	spawn := r.Spawn
	if spawn == nil {
		spawn = launch.Run
	}
	return spawn(ctx, spec)
}

// PartitionExtraLibs filters declared dependencies down to lib/ext extra
// libraries. Entries in the distribution's own group are dropped with a
// single warning: server capability is selected with modules, not jars.
func PartitionExtraLibs(deps []maven.Coordinate, distroGroup string, logger *log.Logger) []maven.Coordinate {
	var libs []maven.Coordinate
	warned := false
	for _, d := range deps {
		if strings.EqualFold(d.GroupID, distroGroup) {
			if !warned {
				logger.Printf("WARNING: %s jars detected in dependencies: use modules to select server capabilities instead", distroGroup)
				warned = true
			}
			continue
		}
		libs = append(libs, d)
	}
	return libs
}

// printDiagnostics reports the runtime environment ahead of the launch,
// mirroring the launcher's system property dump.
func (r *Runner) printDiagnostics(logger *log.Logger) {
	logger.Printf("rundistro on %s/%s (%s)", runtime.GOOS, runtime.GOARCH, runtime.Version())
	for _, k := range []string{"JAVA_HOME", "JETTY_HOME", "JETTY_BASE"} {
		if v, ok := os.LookupEnv(k); ok {
			logger.Printf("%s = %s", k, v)
		}
	}
}
