// Copyright 2025 The Rundistro Authors
// SPDX-License-Identifier: Apache-2.0

package launch

import (
	"context"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// Cmd materializes the spec as an exec.Cmd bound to ctx.
func (s CommandSpec) Cmd(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, s.Path, s.Args...)
	cmd.Dir = s.Dir
	if s.InheritIO {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return cmd
}

// Run spawns the process described by spec and blocks until it terminates.
// There is no timeout: a hung child hangs the caller. The child's exit code
// is not interpreted; only spawn and wait failures are reported.
func Run(ctx context.Context, spec CommandSpec) error {
	cmd := spec.Cmd(ctx)
	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "spawning server process")
	}
	if err := cmd.Wait(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil
		}
		return errors.Wrap(err, "waiting for server process")
	}
	return nil
}
