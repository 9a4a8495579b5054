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

	"github.com/JBlaschke/parallel-tar/fstree"
	"github.com/JBlaschke/parallel-tar/internal/log"
	"github.com/JBlaschke/parallel-tar/pathutil"
	"github.com/JBlaschke/parallel-tar/pipe"
)

// CreateOptions configures Create.
type CreateOptions struct {
	// ArchiveName is the final on-disk directory name holding the shards,
	// and the filename prefix for each shard.
	ArchiveName string
	// Target is a directory to walk, or (if FromIndex) a serialized
	// fstree index file.
	Target string
	// NumThreads is the number of shard-writing workers.
	NumThreads int
	// FollowLinks controls whether a filesystem walk dereferences symlinks.
	// Ignored when FromIndex is set (the index already encodes this).
	FollowLinks bool
	// FromIndex sources work items from a previously built fstree index
	// instead of walking Target directly.
	FromIndex bool
	// JSONIndex selects the JSON index format when FromIndex is set;
	// otherwise the binary format is assumed.
	JSONIndex bool
	// Compress wraps each shard in a gzip encoder at default compression.
	Compress bool
}

type workResult struct {
	path string
	err  error
}

// Create packs Target into opts.NumThreads tar shards under a new directory
// named opts.ArchiveName.
func Create(opts CreateOptions) error {
	var base string
	var rel string
	var hasBase bool
	var tree *fstree.TreeNode

	if opts.FromIndex {
		t, err := loadIndex(opts.Target, opts.JSONIndex)
		if err != nil {
			return err
		}
		tree = t
		var err2 error
		base, rel, hasBase, err2 = pathutil.Analyze(tree.Path)
		if err2 != nil {
			return err2
		}
	} else {
		var err error
		base, rel, hasBase, err = pathutil.Analyze(opts.Target)
		if err != nil {
			return err
		}
	}

	priorCwd, err := os.Getwd()
	if err != nil {
		return err
	}

	if hasBase && base != "" {
		if err := os.Chdir(base); err != nil {
			return fmt.Errorf("chdir to %s: %w", base, err)
		}
		defer os.Chdir(priorCwd)
	}

	archiveDest := filepath.Join(priorCwd, opts.ArchiveName)

	if _, err := os.Stat(archiveDest); err == nil {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, archiveDest)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(archiveDest, 0o700); err != nil {
		return err
	}

	var workItems []string
	if opts.FromIndex {
		workItems = enumerateIndex(tree)
	} else {
		items, err := enumerateWalk(rel, opts.FollowLinks)
		if err != nil {
			return err
		}
		workItems = items
	}

	workPipe := pipe.New[string](len(workItems))
	resultPipe := pipe.New[workResult](len(workItems))

	var wg sync.WaitGroup
	workerErrs := make([]error, opts.NumThreads)

	for i := 0; i < opts.NumThreads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			workerErrs[i] = createWorker(i, opts.ArchiveName, archiveDest, opts.Compress, workPipe, resultPipe)
		}(i)
	}

	for _, item := range workItems {
		workPipe.Send(item)
	}

	results := resultPipe.CollectExpected(len(workItems))
	workPipe.SetCompleted()
	wg.Wait()

	for _, werr := range workerErrs {
		if werr != nil {
			resultPipe.SetCompleted()
			return werr
		}
	}

	reconcile(workItems, results)
	return nil
}

// createWorker opens its shard file and drains the work pipe until
// completion, appending each item to the shard and reporting a result.
func createWorker(idx int, archiveName, archiveDest string, compress bool, work *pipe.Pipe[string], results *pipe.Pipe[workResult]) error {
	ext := ".tar"
	if compress {
		ext = ".tar.gz"
	}
	shardPath := filepath.Join(archiveDest, fmt.Sprintf("%s.%d%s", archiveName, idx, ext))

	f, err := os.Create(shardPath)
	if err != nil {
		work.SetCompleted()
		results.SetCompleted()
		return fmt.Errorf("create shard %s: %w", shardPath, err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(f)
		w = gz
		defer gz.Close()
	}

	tw := tar.NewWriter(w)
	defer tw.Close()

	for {
		item, ok := work.TryRecvPatient()
		if !ok {
			if work.GetCompleted() {
				return nil
			}
			log.Warn("worker receive failed, retrying", "worker", idx)
			continue
		}

		if err := appendItem(tw, item); err != nil {
			results.Send(workResult{path: item, err: err})
			continue
		}
		results.Send(workResult{path: item, err: nil})
	}
}

// appendItem classifies item via lstat and appends it to tw, either as a
// symlink header, a directory header, or a regular file with its contents.
func appendItem(tw *tar.Writer, item string) error {
	info, err := os.Lstat(item)
	if err != nil {
		return err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(item)
		if err != nil {
			return err
		}
		hdr := &tar.Header{
			Name:     item,
			Typeflag: tar.TypeSymlink,
			Linkname: target,
			Size:     0,
			Mode:     modeForPath(item),
		}
		return tw.WriteHeader(hdr)
	}

	if info.IsDir() {
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = item
		hdr.Mode = modeForPath(item)
		return tw.WriteHeader(hdr)
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = item
	hdr.Mode = modeForPath(item)
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	f, err := os.Open(item)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tw, f)
	return err
}

// reconcile logs a warning for every requested path that has no successful
// result.
func reconcile(requested []string, results []workResult) {
	processed := make(map[string]bool, len(results))
	for _, r := range results {
		if r.err == nil {
			processed[r.path] = true
		}
	}
	for _, p := range requested {
		if !processed[p] {
			log.Warn("requested path was not successfully archived", "path", p)
		}
	}
}

func loadIndex(path string, jsonFormat bool) (*fstree.TreeNode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if jsonFormat {
		return fstree.ReadJSON(f)
	}
	return fstree.ReadBinary(f)
}
