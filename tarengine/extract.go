// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package tarengine

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/JBlaschke/parallel-tar/internal/log"
	"github.com/JBlaschke/parallel-tar/pathutil"
)

// ExtractOptions configures Extract.
type ExtractOptions struct {
	// ArchiveName is the shard filename prefix used by Create.
	ArchiveName string
	// ArchiveDir is the directory holding the shard files.
	ArchiveDir string
	// Destination is the directory entries are written into.
	Destination string
	// NumThreads is the number of shards to read, one worker per shard.
	NumThreads int
	// Compress indicates the shards are gzip-compressed.
	Compress bool
}

// Extract unpacks opts.NumThreads shards in parallel into Destination.
// Extraction order across shards is unspecified; within a shard, entries
// are written in tar order.
func Extract(opts ExtractOptions) error {
	if err := os.MkdirAll(opts.Destination, 0o700); err != nil {
		return err
	}

	plan := NewDirPlan()

	var wg sync.WaitGroup
	errs := make([]error, opts.NumThreads)

	for i := 0; i < opts.NumThreads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = extractWorker(i, opts, plan)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return plan.Finalize()
}

func extractWorker(idx int, opts ExtractOptions, plan *DirPlan) error {
	ext := ".tar"
	if opts.Compress {
		ext = ".tar.gz"
	}
	shardPath := filepath.Join(opts.ArchiveDir, fmt.Sprintf("%s.%d%s", opts.ArchiveName, idx, ext))

	f, err := os.Open(shardPath)
	if err != nil {
		return fmt.Errorf("open shard %s: %w", shardPath, err)
	}
	defer f.Close()

	var r io.Reader = f
	if opts.Compress {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gz.Close()
		r = gz
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if err := extractEntry(tr, hdr, opts.Destination, plan); err != nil {
			return err
		}
	}
}

// extractEntry writes a single tar entry under destination, rejecting any
// entry whose name does not sanitize cleanly: a rejected path is never
// written.
func extractEntry(tr *tar.Reader, hdr *tar.Header, destination string, plan *DirPlan) error {
	rel, ok := pathutil.SanitizeRel(hdr.Name)
	if !ok {
		log.Warn("rejecting unsafe archive entry", "name", hdr.Name)
		return nil
	}
	target := filepath.Join(destination, rel)
	parent := filepath.Dir(target)

	if err := os.MkdirAll(parent, 0o700); err != nil {
		return err
	}
	if err := EnsureOwnerWritable(plan, parent); err != nil {
		return err
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(target, 0o700); err != nil {
			return err
		}
		plan.Want(target, os.FileMode(hdr.Mode).Perm(), 0)
		return nil

	case tar.TypeSymlink:
		_ = os.Remove(target)
		return os.Symlink(hdr.Linkname, target)

	default:
		out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode).Perm())
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = io.Copy(out, tr)
		return err
	}
}
