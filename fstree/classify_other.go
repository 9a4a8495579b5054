// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package fstree

import "os"

// classifySpecial has no special-file classification on non-Unix platforms.
func classifySpecial(_ os.FileInfo, node *TreeNode) Kind {
	node.UnknownReason = ""
	return KindUnknown
}
