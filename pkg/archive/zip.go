// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive provides zip archive extraction onto billy filesystems.
package archive

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
)

// OpenZip opens the zip archive at p within fs. The returned closer releases
// the underlying file.
func OpenZip(fs billy.Filesystem, p string) (*zip.Reader, func() error, error) {
	info, err := fs.Stat(p)
	if err != nil {
		return nil, nil, err
	}
	f, err := fs.Open(p)
	if err != nil {
		return nil, nil, err
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, nil, errors.Wrapf(err, "reading zip %s", p)
	}
	return zr, f.Close, nil
}

// ExtractZip writes the contents of a zip to a filesystem, preserving the
// archive's internal directory structure. Entries that would escape the
// filesystem root are skipped.
func ExtractZip(zr *zip.Reader, fs billy.Filesystem) error {
	for _, f := range zr.File {
		name := path.Clean(f.Name)
		if name == "." || slices.Contains(strings.Split(name, "/"), "..") {
			continue
		}
		if f.FileInfo().IsDir() {
			if err := fs.MkdirAll(name, f.FileInfo().Mode().Perm()); err != nil {
				return err
			}
			continue
		}
		if dir := path.Dir(name); dir != "." {
			if err := fs.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		src, err := f.Open()
		if err != nil {
			return err
		}
		dst, err := fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.FileInfo().Mode().Perm())
		if err != nil {
			src.Close()
			return err
		}
		if _, err := io.Copy(dst, src); err != nil {
			src.Close()
			dst.Close()
			return err
		}
		src.Close()
		if err := dst.Close(); err != nil {
			return err
		}
	}
	return nil
}
