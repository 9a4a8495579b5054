// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package tarengine

import "os"

// applyMode toggles the read-only bit instead of setting real Unix mode
// bits: a desired mode with no owner-write bit sets read-only, otherwise
// the file is left writable.
func applyMode(dir string, mode os.FileMode) error {
	if mode&0o200 == 0 {
		return os.Chmod(dir, 0o444)
	}
	return os.Chmod(dir, 0o666)
}

func chmodOwnerWritable(dir string, _ os.FileMode) error {
	return os.Chmod(dir, 0o666)
}
