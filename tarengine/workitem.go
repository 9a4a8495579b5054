// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package tarengine

import (
	"path/filepath"
	"sort"

	"github.com/JBlaschke/parallel-tar/fstree"
	"github.com/JBlaschke/parallel-tar/internal/log"
)

// enumerateWalk walks root (honoring followLinks) and returns every entry's
// path, in the order the filesystem walker yields them.
func enumerateWalk(root string, followLinks bool) ([]string, error) {
	var files []string

	walkFn := func(path string, err error) error {
		if err != nil {
			logEnumerationWarning(path, err)
			return err
		}
		files = append(files, path)
		return nil
	}

	if followLinks {
		return files, walkFollowingLinks(root, walkFn)
	}
	return files, filepathWalk(root, walkFn)
}

// enumerateIndex collects every file, symlink, and empty-directory path
// recorded in tree, sorted by descending size so the largest items are
// scheduled first (balancing shards against the straggler effect), and
// strips the common root prefix so entries are recorded relative to it.
func enumerateIndex(tree *fstree.TreeNode) []string {
	type item struct {
		path string
		size int64
	}

	var items []item
	_ = tree.Walk(func(n *fstree.TreeNode) error {
		switch n.Kind {
		case fstree.KindFile, fstree.KindSymlink:
			meta, _ := n.ReadMetadata()
			items = append(items, item{path: n.Path, size: meta.SizeBytes})
		case fstree.KindDirectory:
			if len(n.Children) == 0 {
				items = append(items, item{path: n.Path, size: 0})
			}
		}
		return nil
	})

	sort.SliceStable(items, func(i, j int) bool { return items[i].size > items[j].size })

	root := tree.Path
	out := make([]string, 0, len(items))
	for _, it := range items {
		rel, err := filepath.Rel(root, it.path)
		if err != nil || rel == "." {
			out = append(out, it.path)
			continue
		}
		out = append(out, rel)
	}
	return out
}

func logEnumerationWarning(path string, err error) {
	log.Warn("enumeration produced an unusable entry", "path", path, "error", err)
}
