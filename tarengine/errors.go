// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

// Package tarengine implements the parallel tar archiver and extractor: a
// bounded worker pool that streams filesystem entries into N shard files
// (or replays an fstree index into them), and a matching parallel extractor.
package tarengine

import "errors"

var (
	// ErrAlreadyExists is returned when the destination for shard files
	// already exists.
	ErrAlreadyExists = errors.New("tarengine: archive destination already exists")

	// ErrChannelClosed names a work pipe closed without the completed flag
	// having been set. Create's workers do not return it: when a receive
	// yields nothing and the flag is unset, they log a warning and keep
	// polling.
	ErrChannelClosed = errors.New("tarengine: channel closed unexpectedly")
)
