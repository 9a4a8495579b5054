// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package fstree

import "os"

// classifySpecial distinguishes Unix special files (sockets, FIFOs, block
// and char devices). Anything else (unrecognized mode bits) becomes
// KindUnknown.
func classifySpecial(info os.FileInfo, node *TreeNode) Kind {
	mode := info.Mode()
	switch {
	case mode&os.ModeSocket != 0:
		return KindSocket
	case mode&os.ModeNamedPipe != 0:
		return KindFifo
	case mode&(os.ModeDevice|os.ModeCharDevice) != 0:
		return KindDevice
	default:
		node.UnknownReason = ""
		return KindUnknown
	}
}
