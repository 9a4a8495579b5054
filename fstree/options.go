// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package fstree

// Option configures Build using the functional-options pattern.
type Option func(*options)

type options struct {
	followSymlinks     bool
	requireValidSymlinks bool
}

func defaultOptions() *options {
	return &options{
		followSymlinks:     false,
		requireValidSymlinks: false,
	}
}

// WithFollowSymlinks makes Build dereference symlinks and index the target
// in place of the link itself. It implies WithValidSymlinksOnly: a symlink
// that cannot be resolved becomes a hard NotFound error rather than a
// degraded node, since there would be nothing else to index.
func WithFollowSymlinks() Option {
	return func(o *options) {
		o.followSymlinks = true
		o.requireValidSymlinks = true
	}
}

// WithValidSymlinksOnly makes Build fail a symlink entry with ErrNotFound
// when its target cannot be read, instead of recording the node's own path
// as a degraded target. Forced on automatically by WithFollowSymlinks.
func WithValidSymlinksOnly() Option {
	return func(o *options) {
		o.requireValidSymlinks = true
	}
}
