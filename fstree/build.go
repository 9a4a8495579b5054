// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package fstree

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/JBlaschke/parallel-tar/internal/log"
)

// Build recursively constructs a TreeNode rooted at path. Permission-denied
// stat failures degrade the affected node to KindUnknown (with the error
// recorded) instead of aborting the whole build; any other error still
// propagates.
func Build(path string, opts ...Option) (*TreeNode, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return buildNode(path, o)
}

func buildNode(path string, o *options) (*TreeNode, error) {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		name = path
	}

	node := &TreeNode{Name: name, Path: path}

	kind, err := classify(path, o, node)
	if err != nil {
		if os.IsPermission(err) {
			log.Warn("node_type_from_path failed with permission denied", "path", path)
			node.Kind = KindUnknown
			node.UnknownReason = err.Error()
			return node, nil
		}
		return nil, err
	}
	node.Kind = kind
	return node, nil
}

// classify fills in the kind-specific fields of node and returns its Kind.
// It recurses into directories, building and sorting children, and follows
// symlinks when o.followSymlinks is set.
func classify(path string, o *options, node *TreeNode) (Kind, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return KindUnknown, err
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, readErr := os.Readlink(path)
		if readErr != nil {
			if o.requireValidSymlinks {
				return KindUnknown, fmt.Errorf("%w: %s", ErrNotFound, path)
			}
			target = path
		}

		if o.followSymlinks {
			followed, statErr := os.Stat(path)
			if statErr != nil {
				if o.requireValidSymlinks {
					return KindUnknown, fmt.Errorf("%w: %s", ErrNotFound, path)
				}
				node.Kind = KindSymlink
				node.SymlinkTarget = target
				return KindSymlink, nil
			}
			return classifyFollowed(path, followed, o, node)
		}

		node.SymlinkTarget = target
		return KindSymlink, nil

	case info.IsDir():
		entries, readErr := os.ReadDir(path)
		if readErr != nil {
			return KindUnknown, readErr
		}
		children := make([]*TreeNode, 0, len(entries))
		for _, entry := range entries {
			child, buildErr := buildNode(filepath.Join(path, entry.Name()), o)
			if buildErr != nil {
				return KindUnknown, buildErr
			}
			children = append(children, child)
		}
		sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
		node.Children = children
		return KindDirectory, nil

	case info.Mode().IsRegular():
		node.Size = info.Size()
		return KindFile, nil

	default:
		return classifySpecial(info, node), nil
	}
}

// classifyFollowed fills node as if path were the already-stat'd target
// info describes (used when follow_symlinks causes us to dereference).
func classifyFollowed(path string, info os.FileInfo, o *options, node *TreeNode) (Kind, error) {
	switch {
	case info.IsDir():
		entries, err := os.ReadDir(path)
		if err != nil {
			return KindUnknown, err
		}
		children := make([]*TreeNode, 0, len(entries))
		for _, entry := range entries {
			child, buildErr := buildNode(filepath.Join(path, entry.Name()), o)
			if buildErr != nil {
				return KindUnknown, buildErr
			}
			children = append(children, child)
		}
		sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
		node.Children = children
		return KindDirectory, nil
	case info.Mode().IsRegular():
		node.Size = info.Size()
		return KindFile, nil
	default:
		return classifySpecial(info, node), nil
	}
}
