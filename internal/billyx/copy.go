// Copyright 2026 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

// Package billyx provides utilities for working with billy filesystems.
package billyx

import (
	"io"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
)

// KeepFunc reports whether the file at path (relative to the tree being
// copied) should be copied. Directories are not subject to KeepFunc.
type KeepFunc func(path string, info os.FileInfo) bool

// CopyFile copies a single file within fs, creating parent directories of dst
// as needed. The copy is not atomic; a failure part-way leaves a truncated dst.
func CopyFile(fs billy.Filesystem, src, dst string, mode os.FileMode) error {
	srcFile, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()
	dstFile, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer dstFile.Close()
	_, err = io.Copy(dstFile, srcFile)
	return err
}

// CopyTree recursively mirrors the src directory onto dst within fs,
// following symbolic links with no depth limit. Files for which keep returns
// false are skipped; a nil keep copies everything. A destination directory
// that already exists is tolerated; any other creation conflict is an error.
func CopyTree(fs billy.Filesystem, src, dst string, keep KeepFunc) error {
	// Stat (not Lstat) so the walk descends through symlinked directories.
	info, err := fs.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.Errorf("%s: not a directory", src)
	}
	if err := mkdirTolerant(fs, dst, info.Mode().Perm()); err != nil {
		return err
	}
	entries, err := fs.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := fs.Join(src, entry.Name())
		dstPath := fs.Join(dst, entry.Name())
		resolved, err := fs.Stat(srcPath)
		if err != nil {
			return err
		}
		if resolved.IsDir() {
			if err := CopyTree(fs, srcPath, dstPath, keep); err != nil {
				return err
			}
			continue
		}
		if keep != nil && !keep(srcPath, resolved) {
			continue
		}
		if err := CopyFile(fs, srcPath, dstPath, resolved.Mode().Perm()); err != nil {
			return err
		}
	}
	return nil
}

// mkdirTolerant creates dir, treating "already exists as a directory" as
// benign and any other conflict as an error.
func mkdirTolerant(fs billy.Filesystem, dir string, mode os.FileMode) error {
	if info, err := fs.Stat(dir); err == nil {
		if info.IsDir() {
			return nil
		}
		return errors.Errorf("%s: exists and is not a directory", dir)
	}
	return fs.MkdirAll(dir, mode)
}

// CopyBetween copies srcPath in src to dstPath in dst, creating parent
// directories of dstPath as needed.
func CopyBetween(dst billy.Filesystem, dstPath string, src billy.Filesystem, srcPath string, mode os.FileMode) error {
	if dir := path.Dir(dstPath); dir != "." {
		if err := dst.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	srcFile, err := src.Open(srcPath)
	if err != nil {
		return err
	}
	defer srcFile.Close()
	dstFile, err := dst.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer dstFile.Close()
	_, err = io.Copy(dstFile, srcFile)
	return err
}
