// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package tarengine

import "os"

// applyMode sets dir's mode bits directly.
func applyMode(dir string, mode os.FileMode) error {
	return os.Chmod(dir, mode)
}

// chmodOwnerWritable grants owner write+execute on top of the current mode.
func chmodOwnerWritable(dir string, current os.FileMode) error {
	return os.Chmod(dir, current|0o300)
}
