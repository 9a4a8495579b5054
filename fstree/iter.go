// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package fstree

import (
	"fmt"
	"io"
)

// Walk calls fn for n and every descendant, pre-order (depth-first). It
// stops and returns fn's error as soon as fn returns one.
func (n *TreeNode) Walk(fn func(*TreeNode) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := child.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// CollectAll returns every node in the subtree rooted at n, pre-order.
// Used by the indexer CLI's "largest entries" summary.
func (n *TreeNode) CollectAll() []*TreeNode {
	var out []*TreeNode
	_ = n.Walk(func(node *TreeNode) error {
		out = append(out, node)
		return nil
	})
	return out
}

// FormatSize renders a byte count using binary (1024-based) units, with two
// decimal places above 1 KB.
func FormatSize(bytes int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(gb))
	case bytes >= mb:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

var kindIcon = map[Kind]string{
	KindFile:      "file",
	KindDirectory: "dir",
	KindSymlink:   "link",
	KindSocket:    "socket",
	KindFifo:      "fifo",
	KindDevice:    "device",
	KindUnknown:   "?",
}

// PrintTree writes an indented tree listing to w. Each line shows the
// node's kind tag, name, and (if already computed) its reduced size.
func (n *TreeNode) PrintTree(w io.Writer) {
	n.printTree(w, "", true)
}

func (n *TreeNode) printTree(w io.Writer, prefix string, isLast bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}

	sizeStr := ""
	if meta, ok := n.ReadMetadata(); ok && meta.SizeBytes > 0 {
		sizeStr = fmt.Sprintf(" (%s)", FormatSize(meta.SizeBytes))
	}

	fmt.Fprintf(w, "%s%s[%s] %s%s\n", prefix, connector, kindIcon[n.Kind], n.Name, sizeStr)

	childPrefix := prefix + "│   "
	if isLast {
		childPrefix = prefix + "    "
	}
	for i, child := range n.Children {
		child.printTree(w, childPrefix, i == len(n.Children)-1)
	}
}
