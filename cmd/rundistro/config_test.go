// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jettyproject/rundistro/pkg/registry/maven"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigYAML(t *testing.T) {
	p := writeConfig(t, "rundistro.yaml", `
run:
  version: 9.4.10
  modules: [annotations]
  dependencies:
    - group: com.company.foo
      artifact: foo
      version: "1.0"
      type: jar
  webapp:
    contextPath: /app
    war: target/app
repositories:
  - https://repo.example/maven2
cacheDir: /tmp/repo
`)
	cfg, err := loadConfig(p)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Run.Version != "9.4.10" {
		t.Errorf("Version = %q, want 9.4.10", cfg.Run.Version)
	}
	wantDeps := []maven.Coordinate{{GroupID: "com.company.foo", ArtifactID: "foo", Version: "1.0", Type: "jar"}}
	if diff := cmp.Diff(wantDeps, cfg.Run.Dependencies); diff != "" {
		t.Errorf("Dependencies mismatch (-want +got):\n%s", diff)
	}
	if cfg.Run.WebApp.ContextPath != "/app" {
		t.Errorf("ContextPath = %q, want /app", cfg.Run.WebApp.ContextPath)
	}
	if len(cfg.Repositories) != 1 || cfg.Repositories[0] != "https://repo.example/maven2" {
		t.Errorf("Repositories = %v", cfg.Repositories)
	}
}

func TestLoadConfigTOML(t *testing.T) {
	p := writeConfig(t, "rundistro.toml", `
cacheDir = "/tmp/repo"

[run]
version = "9.4.10"
modules = ["annotations"]

[run.webapp]
contextPath = "/app"
`)
	cfg, err := loadConfig(p)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Run.Version != "9.4.10" {
		t.Errorf("Version = %q, want 9.4.10", cfg.Run.Version)
	}
	if cfg.CacheDir != "/tmp/repo" {
		t.Errorf("CacheDir = %q, want /tmp/repo", cfg.CacheDir)
	}
}

func TestLoadConfigUnknownExtension(t *testing.T) {
	p := writeConfig(t, "rundistro.ini", "home=/opt/jetty")
	if _, err := loadConfig(p); err == nil {
		t.Fatal("loadConfig() succeeded, want error")
	}
}

func TestAbsolutize(t *testing.T) {
	cfg := &fileConfig{CacheDir: "repo"}
	cfg.Run.BuildDir = "target"
	if err := cfg.absolutize(); err != nil {
		t.Fatalf("absolutize() error = %v", err)
	}
	if !filepath.IsAbs(cfg.Run.BuildDir) || !filepath.IsAbs(cfg.CacheDir) {
		t.Errorf("paths not absolutized: %q, %q", cfg.Run.BuildDir, cfg.CacheDir)
	}
	if cfg.Run.Home != "" {
		t.Errorf("empty path rewritten: %q", cfg.Run.Home)
	}
}
