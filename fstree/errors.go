// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package fstree

import "errors"

// Sentinel errors, classified by callers with errors.Is/errors.As.
var (
	// ErrNotFound is returned when a symlink target cannot be resolved and
	// strict symlink validation is in effect.
	ErrNotFound = errors.New("fstree: not found")

	// ErrInvalidPath is returned for paths that cannot be meaningfully
	// indexed (e.g. an empty root).
	ErrInvalidPath = errors.New("fstree: invalid path")

	// ErrLockPoisoned is returned when a memoized slot's guard observed a
	// panic during a previous write and refuses to serve any further reads
	// or writes. It is reported, never silently swallowed.
	ErrLockPoisoned = errors.New("fstree: lock poisoned")

	// ErrSerialization wraps failures encoding or decoding a tree.
	ErrSerialization = errors.New("fstree: serialization error")
)
