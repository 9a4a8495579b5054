// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

// Command partar-index builds a content-addressed Merkle index of a
// directory and writes it to disk as JSON or binary.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/JBlaschke/parallel-tar/fstree"
	"github.com/JBlaschke/parallel-tar/internal/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
	verbose   int
	quiet     bool

	follow    bool
	valid     bool
	empty     bool
	useMD5    bool
	indexFile string
	jsonFmt   bool
)

var rootCmd = &cobra.Command{
	Use:   "partar-index TARGET",
	Short: "Build a content-addressed Merkle index of a directory",
	Args:  cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := resolveLevel()
		log.Init(level, logFormat, os.Stderr)
		return nil
	},
	RunE: runIndex,
}

func resolveLevel() string {
	switch {
	case quiet:
		return "error"
	case verbose >= 2:
		return "debug"
	case verbose == 1:
		return "info"
	case logLevel != "":
		return logLevel
	default:
		return "warn"
	}
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "logging level (debug, info, warn, error); default warn")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "logging format (text, json)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity: -v for info, -vv for debug")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.Flags().BoolVarP(&follow, "follow", "l", false, "follow symlinks, indexing their targets in place")
	rootCmd.Flags().BoolVarP(&valid, "valid", "s", false, "fail on symlinks whose link target cannot be read")
	rootCmd.Flags().BoolVar(&empty, "empty", false, "build the tree topology only, skipping metadata and hash reductions")
	rootCmd.Flags().BoolVar(&useMD5, "md5", false, "use MD5 instead of SHA-256 for the Merkle digest")
	rootCmd.Flags().StringVarP(&indexFile, "file", "f", "", "index output path (required)")
	rootCmd.Flags().BoolVar(&jsonFmt, "json", false, "write the index as JSON instead of binary")
	rootCmd.MarkFlagRequired("file")
}

func runIndex(cmd *cobra.Command, args []string) error {
	target := args[0]
	runID := uuid.New().String()
	logger := log.With("run_id", runID, "target", target)

	var opts []fstree.Option
	if follow {
		opts = append(opts, fstree.WithFollowSymlinks())
	} else if valid {
		opts = append(opts, fstree.WithValidSymlinksOnly())
	}

	logger.Info("building tree", "follow_symlinks", follow)
	fmt.Printf("Building tree for: %s\n", target)

	tree, err := fstree.Build(target, opts...)
	if err != nil {
		return fmt.Errorf("build tree: %w", err)
	}

	if !empty {
		if _, err := tree.ComputeMetadata(); err != nil {
			return fmt.Errorf("compute metadata: %w", err)
		}
		digest := fstree.DigestSHA256
		if useMD5 {
			digest = fstree.DigestMD5
		}
		if _, err := tree.ComputeHash(digest); err != nil {
			return fmt.Errorf("compute hash: %w", err)
		}
	}

	if err := writeIndex(tree, indexFile, jsonFmt); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	printSummary(tree)
	return nil
}

func writeIndex(tree *fstree.TreeNode, path string, jsonFmt bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if jsonFmt {
		return tree.WriteJSON(f)
	}
	return tree.WriteBinary(f)
}

func printSummary(tree *fstree.TreeNode) {
	meta, ok := tree.ReadMetadata()
	if ok {
		fmt.Printf("%d files, %d directories, %s total\n", meta.FileCount, meta.DirCount, fstree.FormatSize(meta.SizeBytes))
	}
	if hash, ok := tree.ReadHash(); ok {
		fmt.Printf("root hash: %s\n", hash)
	}

	all := tree.CollectAll()
	sort.Slice(all, func(i, j int) bool {
		mi, _ := all[i].ReadMetadata()
		mj, _ := all[j].ReadMetadata()
		return mi.SizeBytes > mj.SizeBytes
	})

	fmt.Println("--- Largest Entries ---")
	limit := 5
	if len(all) < limit {
		limit = len(all)
	}
	for _, n := range all[:limit] {
		m, _ := n.ReadMetadata()
		fmt.Printf("%s (%s)\n", n.Path, fstree.FormatSize(m.SizeBytes))
	}
}

func main() {
	rootCmd.SetOut(io.Discard)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
