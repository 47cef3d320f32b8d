// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

// Package distro ensures a runtime server distribution exists on disk.
package distro

import (
	"context"

	billy "github.com/go-git/go-billy/v5"
	"github.com/jettyproject/rundistro/pkg/archive"
	"github.com/jettyproject/rundistro/pkg/registry/maven"
	"github.com/jettyproject/rundistro/pkg/resolve"
	"github.com/pkg/errors"
)

const (
	// DefaultGroupID is the distribution's own artifact namespace.
	DefaultGroupID = "org.eclipse.jetty"
	// HomeArtifactID is the artifact id of the distribution archive.
	HomeArtifactID = "jetty-home"
)

// ErrHomeNotExist is returned when an explicitly configured home path is missing.
var ErrHomeNotExist = errors.New("jetty home does not exist")

// Options configure Ensure.
type Options struct {
	// Home is an explicitly configured distribution directory. When set it is
	// used read-only and must already exist.
	Home string
	// GroupID of the distribution archive; DefaultGroupID when empty.
	GroupID string
	// Version pins the distribution archive.
	Version string
	// BuildDir is the build output directory, as a path within fs. Auto
	// installed distributions are unpacked here.
	BuildDir string
}

// Coordinate returns the distribution archive coordinate for the options.
func (o Options) Coordinate() maven.Coordinate {
	group := o.GroupID
	if group == "" {
		group = DefaultGroupID
	}
	return maven.Coordinate{GroupID: group, ArtifactID: HomeArtifactID, Version: o.Version, Type: "zip"}
}

// Ensure returns the path of a usable distribution home within fs. An
// explicitly configured home is validated and returned unchanged; otherwise
// the versioned distribution archive is resolved, unpacked into the build
// directory, and the install path derived as <buildDir>/<artifactId>-<version>.
// The derived name is a contract with the archive's packaging convention: the
// archive contents are not inspected.
func Ensure(ctx context.Context, r *resolve.Resolver, fs billy.Filesystem, opts Options) (string, error) {
	if opts.Home != "" {
		if _, err := fs.Stat(opts.Home); err != nil {
			return "", errors.Wrapf(ErrHomeNotExist, "%s", opts.Home)
		}
		return opts.Home, nil
	}
	coord := opts.Coordinate()
	archivePath, err := r.Resolve(ctx, coord)
	if err != nil {
		return "", errors.Wrap(err, "resolving distribution")
	}
	zr, closeZip, err := archive.OpenZip(r.Cache, archivePath)
	if err != nil {
		return "", errors.Wrap(err, "opening distribution archive")
	}
	defer closeZip()
	if err := fs.MkdirAll(opts.BuildDir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating build directory")
	}
	buildFS, err := fs.Chroot(opts.BuildDir)
	if err != nil {
		return "", errors.Wrap(err, "entering build directory")
	}
	if err := archive.ExtractZip(zr, buildFS); err != nil {
		return "", errors.Wrap(err, "unpacking distribution")
	}
	return fs.Join(opts.BuildDir, coord.ArtifactID+"-"+coord.Version), nil
}
