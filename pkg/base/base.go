// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

// Package base synthesizes a fresh, self-contained server base directory
// holding the modules, configuration, and libraries for one server invocation.
package base

import (
	"context"
	_ "embed"
	"os"
	"path"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/jettyproject/rundistro/internal/billyx"
	"github.com/jettyproject/rundistro/pkg/registry/maven"
	"github.com/jettyproject/rundistro/pkg/resolve"
	"github.com/jettyproject/rundistro/pkg/webapp"
	"github.com/pkg/errors"
)

//go:embed maven.xml
var mavenXML []byte

//go:embed maven.mod
var mavenMod []byte

const (
	// deployMarkerFile under deployMarkerDir auto-starts the distribution's
	// own deployer; it must never be carried into the synthesized base.
	deployMarkerFile = "deploy.ini"
	deployMarkerDir  = "start.d"
)

var (
	// ErrTemplateNotExist is returned when the configured template base is missing.
	ErrTemplateNotExist = errors.New("jetty base template does not exist")
	// ErrNoSelfArtifact is returned when the running tool's own artifact
	// location cannot be determined.
	ErrNoSelfArtifact = errors.New("cannot determine plugin artifact location")
)

// Options configure Synthesize.
type Options struct {
	// Template is an existing base directory to mirror, or "" for none.
	// Read-only; never mutated.
	Template string
	// ContextXML is a context configuration file excluded from the mirror,
	// compared by filesystem identity rather than by name.
	ContextXML string
	// Dir is the target base directory. Any existing tree at this path is
	// destroyed before synthesis.
	Dir string
	// SelfArtifact is the running tool's own packaged artifact, installed
	// into the base as lib/maven/plugin.jar.
	SelfArtifact string
	// ExtraLibs are installed under lib/ext with group-qualified names.
	ExtraLibs []maven.Coordinate
	// WebApp describes the webapp for the spawned server; rendered to
	// etc/maven.props.
	WebApp webapp.PropsWriter
}

// Synthesize builds the base directory at opts.Dir within fs. Each step is a
// hard precondition for the next; any failure aborts with no rollback of the
// partially synthesized tree (the next run's destroy step clears it).
func Synthesize(ctx context.Context, fs billy.Filesystem, r *resolve.Resolver, opts Options) error {
	if opts.Template != "" {
		if _, err := fs.Stat(opts.Template); err != nil {
			return errors.Wrapf(ErrTemplateNotExist, "%s", opts.Template)
		}
	}
	if _, err := fs.Stat(opts.Dir); err == nil {
		if err := util.RemoveAll(fs, opts.Dir); err != nil {
			return errors.Wrap(err, "removing stale base")
		}
	}
	if err := fs.MkdirAll(opts.Dir, 0o755); err != nil {
		return errors.Wrap(err, "creating base")
	}

	if opts.Template != "" {
		keep := func(p string, info os.FileInfo) bool {
			if opts.ContextXML != "" && sameFile(fs, opts.ContextXML, p) {
				return false
			}
			if path.Base(p) == deployMarkerFile && path.Base(path.Dir(p)) == deployMarkerDir {
				return false
			}
			return true
		}
		if err := billyx.CopyTree(fs, opts.Template, opts.Dir, keep); err != nil {
			return errors.Wrap(err, "mirroring template base")
		}
	}

	for _, dir := range []string{"modules", "etc", "lib", "lib/maven"} {
		if err := fs.MkdirAll(fs.Join(opts.Dir, dir), 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}

	if opts.SelfArtifact == "" {
		return ErrNoSelfArtifact
	}
	if err := billyx.CopyFile(fs, opts.SelfArtifact, fs.Join(opts.Dir, "lib", "maven", "plugin.jar"), 0o644); err != nil {
		return errors.Wrap(err, "installing plugin artifact")
	}

	if err := util.WriteFile(fs, fs.Join(opts.Dir, "etc", "maven.xml"), mavenXML, 0o644); err != nil {
		return errors.Wrap(err, "installing maven.xml")
	}
	if err := util.WriteFile(fs, fs.Join(opts.Dir, "modules", "maven.mod"), mavenMod, 0o644); err != nil {
		return errors.Wrap(err, "installing maven.mod")
	}

	if len(opts.ExtraLibs) > 0 {
		extDir := fs.Join(opts.Dir, "lib", "ext")
		if err := fs.MkdirAll(extDir, 0o755); err != nil {
			return errors.Wrap(err, "creating lib/ext")
		}
		for _, lib := range opts.ExtraLibs {
			p, err := r.Resolve(ctx, lib)
			if err != nil {
				return errors.Wrapf(err, "resolving extra lib %s", lib)
			}
			dst := fs.Join(extDir, lib.QualifiedFilename())
			if err := billyx.CopyBetween(fs, dst, r.Cache, p, 0o644); err != nil {
				return errors.Wrapf(err, "installing extra lib %s", lib)
			}
		}
	}

	if opts.WebApp == nil {
		return errors.New("webapp configuration required")
	}
	f, err := fs.Create(fs.Join(opts.Dir, "etc", "maven.props"))
	if err != nil {
		return errors.Wrap(err, "creating maven.props")
	}
	if err := opts.WebApp.WriteProps(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "writing maven.props")
}

// sameFile reports whether a and b refer to the same file. Identity is
// established by path equality or, where the filesystem supports it, by
// os.SameFile on the two FileInfos.
func sameFile(fs billy.Filesystem, a, b string) bool {
	if path.Clean(a) == path.Clean(b) {
		return true
	}
	fa, errA := fs.Stat(a)
	fb, errB := fs.Stat(b)
	return errA == nil && errB == nil && os.SameFile(fa, fb)
}
