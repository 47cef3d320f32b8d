// Copyright 2026 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

package billyx

import (
	"os"
	"sort"
	"strings"
	"testing"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/go-cmp/cmp"
)

func writeAll(t *testing.T, fs billy.Filesystem, files map[string]string) {
	t.Helper()
	for p, body := range files {
		if err := util.WriteFile(fs, p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func listFiles(t *testing.T, fs billy.Filesystem, root string) []string {
	t.Helper()
	var files []string
	var walk func(dir string)
	walk = func(dir string) {
		entries, err := fs.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			p := fs.Join(dir, e.Name())
			if e.IsDir() {
				walk(p)
			} else {
				files = append(files, strings.TrimPrefix(p, root+"/"))
			}
		}
	}
	walk(root)
	sort.Strings(files)
	return files
}

func TestCopyTree(t *testing.T) {
	fs := memfs.New()
	writeAll(t, fs, map[string]string{
		"/src/a.txt":       "a",
		"/src/sub/b.txt":   "b",
		"/src/sub/c/d.txt": "d",
	})
	if err := CopyTree(fs, "/src", "/dst", nil); err != nil {
		t.Fatalf("CopyTree() error = %v", err)
	}
	got := listFiles(t, fs, "/dst")
	want := []string{"a.txt", "sub/b.txt", "sub/c/d.txt"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	b, err := util.ReadFile(fs, "/dst/sub/b.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "b" {
		t.Errorf("b.txt = %q, want %q", b, "b")
	}
}

func TestCopyTreePredicate(t *testing.T) {
	fs := memfs.New()
	writeAll(t, fs, map[string]string{
		"/src/keep.txt":     "y",
		"/src/skip/drop.me": "n",
		"/src/skip/ok.txt":  "y",
	})
	keep := func(p string, _ os.FileInfo) bool {
		return !strings.HasSuffix(p, ".me")
	}
	if err := CopyTree(fs, "/src", "/dst", keep); err != nil {
		t.Fatalf("CopyTree() error = %v", err)
	}
	got := listFiles(t, fs, "/dst")
	want := []string{"keep.txt", "skip/ok.txt"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyTreeExistingDirTolerated(t *testing.T) {
	fs := memfs.New()
	writeAll(t, fs, map[string]string{
		"/src/sub/a.txt": "a",
		"/dst/sub/b.txt": "b",
	})
	if err := CopyTree(fs, "/src", "/dst", nil); err != nil {
		t.Fatalf("CopyTree() into existing tree error = %v", err)
	}
	got := listFiles(t, fs, "/dst")
	want := []string{"sub/a.txt", "sub/b.txt"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyTreeSourceNotDir(t *testing.T) {
	fs := memfs.New()
	writeAll(t, fs, map[string]string{"/src": "file"})
	if err := CopyTree(fs, "/src", "/dst", nil); err == nil {
		t.Fatal("CopyTree() on file source succeeded, want error")
	}
}

func TestCopyBetween(t *testing.T) {
	src := memfs.New()
	dst := memfs.New()
	writeAll(t, src, map[string]string{"/repo/a.jar": "jar"})
	if err := CopyBetween(dst, "/base/lib/ext/a.jar", src, "/repo/a.jar", 0o644); err != nil {
		t.Fatalf("CopyBetween() error = %v", err)
	}
	b, err := util.ReadFile(dst, "/base/lib/ext/a.jar")
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "jar" {
		t.Errorf("copied = %q, want %q", b, "jar")
	}
}
