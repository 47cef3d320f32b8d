// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

package webapp

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFinalizeDefaults(t *testing.T) {
	var w WebApp
	w.Finalize()
	if w.ContextPath != "/" {
		t.Errorf("ContextPath = %q, want /", w.ContextPath)
	}

	w = WebApp{ContextPath: "app"}
	w.Finalize()
	if w.ContextPath != "/app" {
		t.Errorf("ContextPath = %q, want /app", w.ContextPath)
	}
}

func TestWriteProps(t *testing.T) {
	w := WebApp{
		ContextPath: "/app",
		War:         "/src/target/app",
		Classes:     "/src/target/classes",
		Libs:        []string{"/libs/a.jar", "/libs/b.jar"},
	}
	var sb strings.Builder
	if err := w.WriteProps(&sb); err != nil {
		t.Fatalf("WriteProps() error = %v", err)
	}
	want := strings.Join([]string{
		"context.path=/app",
		"war=/src/target/app",
		"classes.dir=/src/target/classes",
		"lib.jars=/libs/a.jar,/libs/b.jar",
		"",
	}, "\n")
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("props mismatch (-want +got):\n%s", diff)
	}
}

func TestWritePropsEscapes(t *testing.T) {
	w := WebApp{ContextPath: "/a\tb"}
	var sb strings.Builder
	if err := w.WriteProps(&sb); err != nil {
		t.Fatal(err)
	}
	if got, want := sb.String(), "context.path=/a\\tb\n"; got != want {
		t.Errorf("props = %q, want %q", got, want)
	}
}
