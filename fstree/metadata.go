// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package fstree

import "sync"

// ComputeMetadata reduces size, file count, and directory count bottom-up
// over the subtree rooted at n, memoizing the result on n (and every
// descendant, since the reduction recurses). Directory children are reduced
// in parallel; the write-lock on n's metadata slot is held only for the
// final store, since computation of children happens before n's own slot is
// locked.
func (n *TreeNode) ComputeMetadata() (NodeMetadata, error) {
	if v, ok, err := n.metadata.read(); err != nil {
		return NodeMetadata{}, err
	} else if ok {
		return v, nil
	}

	var meta NodeMetadata
	switch n.Kind {
	case KindFile:
		meta = NodeMetadata{SizeBytes: n.Size, FileCount: 1}
	case KindDirectory:
		reduced, err := reduceChildMetadata(n.Children)
		if err != nil {
			return NodeMetadata{}, err
		}
		meta = NodeMetadata{
			SizeBytes: reduced.SizeBytes,
			FileCount: reduced.FileCount,
			DirCount:  reduced.DirCount + 1,
		}
	case KindUnknown:
		meta = NodeMetadata{}
	default: // symlink, socket, fifo, device: counted as one entry, no size
		meta = NodeMetadata{FileCount: 1}
	}

	return n.metadata.compute(func() (NodeMetadata, error) { return meta, nil })
}

// reduceChildMetadata computes each child's metadata concurrently and folds
// the results with the associative Add monoid.
func reduceChildMetadata(children []*TreeNode) (NodeMetadata, error) {
	results := make([]NodeMetadata, len(children))
	errs := make([]error, len(children))

	var wg sync.WaitGroup
	for i, child := range children {
		wg.Add(1)
		go func(i int, child *TreeNode) {
			defer wg.Done()
			results[i], errs[i] = child.ComputeMetadata()
		}(i, child)
	}
	wg.Wait()

	var total NodeMetadata
	for i := range children {
		if errs[i] != nil {
			return NodeMetadata{}, errs[i]
		}
		total = total.Add(results[i])
	}
	return total, nil
}
