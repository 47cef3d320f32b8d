// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

// Package resolve locates artifacts by coordinate, backed by a local cache in
// Maven repository layout and an ordered list of remote repositories.
package resolve

import (
	"context"
	"io"
	"os"
	"path"

	"github.com/cheggaaa/pb"
	billy "github.com/go-git/go-billy/v5"
	"github.com/jettyproject/rundistro/pkg/registry/maven"
	"github.com/pkg/errors"
)

// Resolver resolves coordinates to files in its local cache, fetching from
// remote repositories on a cache miss. A single resolution attempt is made
// per remote; there is no retry policy.
type Resolver struct {
	// Cache is the local artifact cache, laid out in Maven repository
	// convention. Fetched artifacts are written here.
	Cache billy.Filesystem
	// Repos are tried in order on a cache miss.
	Repos []maven.Repository
	// Progress enables a byte progress bar on downloads.
	Progress bool
}

// Resolve returns the path of the artifact within the resolver's cache,
// downloading it first if not already present. The returned error wraps
// maven.ErrNotFound when no configured repository holds the artifact.
func (r *Resolver) Resolve(ctx context.Context, c maven.Coordinate) (string, error) {
	p := c.RepoPath()
	if _, err := r.Cache.Stat(p); err == nil {
		return p, nil
	}
	if len(r.Repos) == 0 {
		return "", errors.Wrapf(maven.ErrNotFound, "resolving %s: no repositories configured", c)
	}
	for _, repo := range r.Repos {
		body, size, err := repo.Artifact(ctx, c)
		if errors.Is(err, maven.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", errors.Wrapf(err, "resolving %s", c)
		}
		err = r.store(p, body, size)
		body.Close()
		if err != nil {
			return "", errors.Wrapf(err, "caching %s", c)
		}
		return p, nil
	}
	return "", errors.Wrapf(maven.ErrNotFound, "resolving %s", c)
}

func (r *Resolver) store(p string, body io.Reader, size int64) error {
	if dir := path.Dir(p); dir != "." {
		if err := r.Cache.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := r.Cache.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if r.Progress && size > 0 {
		bar := pb.New64(size).SetUnits(pb.U_BYTES)
		bar.Start()
		defer bar.Finish()
		body = bar.NewProxyReader(body)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		// A truncated file would satisfy the Stat-based cache check.
		r.Cache.Remove(p)
		return err
	}
	return f.Close()
}
