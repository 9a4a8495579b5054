// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package tarengine

import (
	"os"

	"github.com/JBlaschke/parallel-tar/internal/log"
)

// Fallback mode bits by file type. modeForPath uses defaultFileMode when
// lstat fails; whenever lstat succeeds, its permission bits are used as is.
const (
	defaultDirMode     = 0o700
	defaultSymlinkMode = 0o777
	defaultFileMode    = 0o600
)

// defaultModeFor picks the fallback mode for a path based on its file type.
func defaultModeFor(info os.FileInfo) int64 {
	switch {
	case info.IsDir():
		return defaultDirMode
	case info.Mode()&os.ModeSymlink != 0:
		return defaultSymlinkMode
	default:
		return defaultFileMode
	}
}

// modeForPath reads path's own (non-followed) mode bits via lstat, falling
// back to defaultFileMode when path cannot even be stat'd.
func modeForPath(path string) int64 {
	info, err := os.Lstat(path)
	if err != nil {
		log.Warn("failed to read metadata for path, defaulting file mode", "path", path, "error", err)
		return defaultFileMode
	}
	return int64(info.Mode().Perm())
}
