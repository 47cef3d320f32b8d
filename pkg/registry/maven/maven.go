// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

// Package maven provides an interface with Maven-layout artifact repositories.
package maven

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/jettyproject/rundistro/internal/httpx"
	"github.com/jettyproject/rundistro/internal/urlx"
	"github.com/pkg/errors"
)

// CentralURL is the default remote repository.
var CentralURL = urlx.MustParse("https://repo1.maven.org/maven2")

// Coordinate identifies a resolvable artifact: group, artifact, version, and
// packaging type (e.g. "jar", "zip").
type Coordinate struct {
	GroupID    string `yaml:"group" toml:"group"`
	ArtifactID string `yaml:"artifact" toml:"artifact"`
	Version    string `yaml:"version" toml:"version"`
	Type       string `yaml:"type" toml:"type"`
}

// String renders the coordinate in g:a:v:type form.
func (c Coordinate) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", c.GroupID, c.ArtifactID, c.Version, c.Type)
}

// Filename returns the artifact's file name within its repository directory.
func (c Coordinate) Filename() string {
	return fmt.Sprintf("%s-%s.%s", c.ArtifactID, c.Version, c.Type)
}

// RepoPath returns the artifact's path in Maven repository layout.
func (c Coordinate) RepoPath() string {
	return path.Join(strings.ReplaceAll(c.GroupID, ".", "/"), c.ArtifactID, c.Version, c.Filename())
}

// QualifiedFilename returns a group-qualified file name,
// "<group>.<artifact>-<version>.<type>". Prefixing the group avoids
// collisions between same-named artifacts from different groups.
func (c Coordinate) QualifiedFilename() string {
	return fmt.Sprintf("%s.%s-%s.%s", c.GroupID, c.ArtifactID, c.Version, c.Type)
}

// ErrNotFound is returned when a repository does not hold the requested artifact.
var ErrNotFound = errors.New("artifact not found")

// Repository serves release artifacts addressed by coordinate.
type Repository interface {
	ArtifactURL(Coordinate) (string, error)
	Artifact(context.Context, Coordinate) (io.ReadCloser, int64, error)
}

// HTTPRepository is a Repository implementation over a Maven-layout HTTP repository.
type HTTPRepository struct {
	BaseURL *url.URL
	Client  httpx.BasicClient
}

var _ Repository = &HTTPRepository{}

// ArtifactURL returns the release URL for the given coordinate.
func (r HTTPRepository) ArtifactURL(c Coordinate) (string, error) {
	if c.GroupID == "" || c.ArtifactID == "" || c.Version == "" || c.Type == "" {
		return "", errors.Errorf("incomplete coordinate %q", c)
	}
	base := r.BaseURL
	if base == nil {
		base = CentralURL
	}
	return base.JoinPath(c.RepoPath()).String(), nil
}

// Artifact streams the artifact body for a coordinate along with its size in
// bytes (-1 when unknown). Returns ErrNotFound when the repository responds 404.
func (r HTTPRepository) Artifact(ctx context.Context, c Coordinate) (io.ReadCloser, int64, error) {
	artifactURL, err := r.ArtifactURL(c)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return nil, 0, errors.Wrap(err, "creating artifact request")
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "fetching artifact")
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, 0, errors.Wrapf(ErrNotFound, "%s", artifactURL)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, errors.Wrap(errors.New(resp.Status), "fetching artifact")
	}
	return resp.Body, resp.ContentLength, nil
}
