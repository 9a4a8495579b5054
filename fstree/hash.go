// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package fstree

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/JBlaschke/parallel-tar/internal/log"
)

const hashBufferSize = 1 << 20 // 1 MiB chunks for streaming file hashes

// Digest selects the hash algorithm used by ComputeHash. Mixing MD5 and
// SHA-256 within one run is forbidden by spec: pick one globally.
type Digest int

const (
	DigestSHA256 Digest = iota
	DigestMD5
)

func hashFile(path string, d Digest) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if d == DigestMD5 {
		h := md5.New()
		if _, err := io.CopyBuffer(h, f, make([]byte, hashBufferSize)); err != nil {
			return "", err
		}
		return hex.EncodeToString(h.Sum(nil)), nil
	}

	h := sha256.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, hashBufferSize)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashString(s string, d Digest) string {
	if d == DigestMD5 {
		sum := md5.Sum([]byte(s))
		return hex.EncodeToString(sum[:])
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ComputeHash computes the Merkle hash of the subtree rooted at n, bottom-up,
// memoizing the result. Files hash their contents; symlinks hash their
// target string; directories hash the concatenation of their children's
// (name, hash) pairs, sorted by name after the (possibly concurrent) child
// computation, so the result is order-independent regardless of scheduling.
// Unreadable files degrade to hashing their own name rather than aborting
// the whole run; this is reported only via a warning log, never as an error.
func (n *TreeNode) ComputeHash(d Digest) (string, error) {
	if v, ok, err := n.hash.read(); err != nil {
		return "", err
	} else if ok {
		return v, nil
	}

	var hash string
	switch n.Kind {
	case KindFile:
		v, err := hashFile(n.Path, d)
		if err != nil {
			log.Warn("hash_file failed, falling back to name hash", "path", n.Path, "error", err)
			v = hashString(n.Name, d)
		}
		hash = v
	case KindSymlink:
		hash = hashString(n.SymlinkTarget, d)
	case KindDirectory:
		combined, err := reduceChildHashes(n.Children, d)
		if err != nil {
			return "", err
		}
		hash = hashString(combined, d)
	default: // socket, fifo, device, unknown
		hash = hashString(n.Name, d)
	}

	return n.hash.compute(func() (string, error) { return hash, nil })
}

type namedHash struct {
	name string
	hash string
}

// reduceChildHashes computes each child's hash concurrently, then sorts the
// (name, hash) pairs by name before concatenating them with no separators.
func reduceChildHashes(children []*TreeNode, d Digest) (string, error) {
	pairs := make([]namedHash, len(children))
	errs := make([]error, len(children))

	var wg sync.WaitGroup
	for i, child := range children {
		wg.Add(1)
		go func(i int, child *TreeNode) {
			defer wg.Done()
			h, err := child.ComputeHash(d)
			pairs[i] = namedHash{name: child.Name, hash: h}
			errs[i] = err
		}(i, child)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return "", err
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })

	var out []byte
	for _, p := range pairs {
		out = append(out, p.name...)
		out = append(out, p.hash...)
	}
	return string(out), nil
}
