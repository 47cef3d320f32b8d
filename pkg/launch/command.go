// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

// Package launch constructs and spawns the server child process.
package launch

import (
	"path/filepath"
	"strings"
)

// BaselineModules are always enabled, in this order, ahead of any caller
// supplied modules.
const BaselineModules = "server,http,webapp"

// CommandSpec is the fully resolved child process invocation: a pure data
// value, decoupled from spawning so it can be tested without launching
// anything.
type CommandSpec struct {
	Path      string
	Args      []string
	Dir       string
	InheritIO bool
}

// Options configure BuildCommand.
type Options struct {
	// Java is the interpreter; "java" when empty.
	Java string
	// Home is the distribution home holding start.jar.
	Home string
	// BaseDir is the synthesized base the process runs in.
	BaseDir string
	// Modules extend the baseline module set.
	Modules []string
	// HasExtraLibs enables the ext module.
	HasExtraLibs bool
	// Properties are free-form tokens passed to the launcher verbatim.
	Properties []string
}

// BuildCommand deterministically constructs the child process invocation.
//
// The module list is de-duplicated by substring containment against the
// accumulated comma-joined string, matching the launcher's historical
// behavior: a module whose name is contained in another (e.g. "http" in
// "http2") is treated as already present. Correcting this to token-set
// membership would change which modules reach the launcher.
func BuildCommand(opts Options) CommandSpec {
	java := opts.Java
	if java == "" {
		java = "java"
	}
	var modules strings.Builder
	modules.WriteString(BaselineModules)
	for _, m := range opts.Modules {
		if !strings.Contains(modules.String(), m) {
			modules.WriteString("," + m)
		}
	}
	if opts.HasExtraLibs && !strings.Contains(modules.String(), "ext") {
		modules.WriteString(",ext")
	}
	modules.WriteString(",maven")

	args := []string{"-jar", filepath.Join(opts.Home, "start.jar"), "--module=" + modules.String()}
	if len(opts.Properties) > 0 {
		var props strings.Builder
		for _, p := range opts.Properties {
			props.WriteString(" " + p)
		}
		args = append(args, props.String())
	}
	return CommandSpec{
		Path:      java,
		Args:      args,
		Dir:       opts.BaseDir,
		InheritIO: true,
	}
}
