// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

// Package webapp describes the web application handed to the spawned server.
package webapp

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// PropsWriter renders a webapp description in the properties format consumed
// by the server's maven module.
type PropsWriter interface {
	WriteProps(io.Writer) error
}

// WebApp is the configuration surface of the web application under
// development. Its zero value is finalized to a deployable root context.
type WebApp struct {
	// ContextPath the webapp is deployed under, e.g. "/".
	ContextPath string `yaml:"contextPath" toml:"contextPath"`
	// War is the webapp resource base: an unassembled webapp directory or a
	// packaged war file.
	War string `yaml:"war" toml:"war"`
	// Classes is the directory of compiled classes, if any.
	Classes string `yaml:"classes" toml:"classes"`
	// TestClasses is the directory of compiled test classes, if any.
	TestClasses string `yaml:"testClasses" toml:"testClasses"`
	// Libs are additional runtime classpath entries.
	Libs []string `yaml:"libs" toml:"libs"`
	// ContextXML is an optional context configuration file applied on deploy.
	ContextXML string `yaml:"contextXml" toml:"contextXml"`
	// TempDir is the webapp's scratch directory.
	TempDir string `yaml:"tempDir" toml:"tempDir"`
}

// Finalize fills configuration defaults prior to synthesis.
func (w *WebApp) Finalize() {
	if w.ContextPath == "" {
		w.ContextPath = "/"
	}
	if !strings.HasPrefix(w.ContextPath, "/") {
		w.ContextPath = "/" + w.ContextPath
	}
}

// WriteProps renders the webapp in Java properties format. Empty values are
// omitted; key order is fixed.
func (w *WebApp) WriteProps(out io.Writer) error {
	props := []struct{ key, val string }{
		{"context.path", w.ContextPath},
		{"war", w.War},
		{"classes.dir", w.Classes},
		{"testClasses.dir", w.TestClasses},
		{"lib.jars", strings.Join(w.Libs, ",")},
		{"context.xml", w.ContextXML},
		{"webapp.tmp.dir", w.TempDir},
	}
	for _, p := range props {
		if p.val == "" {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s=%s\n", p.key, escape(p.val)); err != nil {
			return errors.Wrap(err, "writing webapp properties")
		}
	}
	return nil
}

// escape backslash-escapes characters significant in properties values.
func escape(v string) string {
	r := strings.NewReplacer("\\", "\\\\", "\n", "\\n", "\r", "\\r", "\t", "\\t")
	return r.Replace(v)
}

var _ PropsWriter = &WebApp{}
