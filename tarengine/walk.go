// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package tarengine

import (
	"os"
	"path/filepath"
)

// filepathWalk enumerates root without following symlinks.
func filepathWalk(root string, fn func(path string, err error) error) error {
	return filepath.WalkDir(root, func(path string, _ os.DirEntry, err error) error {
		return fn(path, err)
	})
}

// walkFollowingLinks enumerates root, following symlinked directories: when
// an entry is a symlink to a directory, its contents are walked as if the
// directory were there directly.
func walkFollowingLinks(root string, fn func(path string, err error) error) error {
	var walk func(path string) error

	walk = func(path string) error {
		if err := fn(path, nil); err != nil {
			return err
		}

		info, err := os.Lstat(path)
		if err != nil {
			return nil
		}

		target := path
		if info.Mode()&os.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil
			}
			target = resolved
			st, err := os.Stat(target)
			if err != nil || !st.IsDir() {
				return nil
			}
		} else if !info.IsDir() {
			return nil
		}

		entries, err := os.ReadDir(target)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := walk(filepath.Join(path, entry.Name())); err != nil {
				return err
			}
		}
		return nil
	}

	return walk(root)
}
