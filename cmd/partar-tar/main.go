// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

// Command partar-tar creates and extracts sharded tar archives, optionally
// driven by a prebuilt Merkle index.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JBlaschke/parallel-tar/internal/log"
	"github.com/JBlaschke/parallel-tar/tarengine"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
	verbose   int
	quiet     bool

	create     bool
	extract    bool
	archive    string
	target     string
	numThreads int
	follow     bool
	treeIndex  string
	jsonFmt    bool
	compress   bool
)

var rootCmd = &cobra.Command{
	Use:   "partar-tar",
	Short: "Create or extract sharded tar archives in parallel",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.Init(resolveLevel(), logFormat, os.Stderr)
		return nil
	},
	RunE: runTar,
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

	rootCmd.Flags().BoolVar(&create, "create", false, "create an archive")
	rootCmd.Flags().BoolVar(&extract, "extract", false, "extract an archive")
	rootCmd.Flags().StringVar(&target, "path", "", "directory to archive, or destination to extract into")
	rootCmd.Flags().StringVarP(&archive, "file", "f", "", "archive name / directory (required)")
	rootCmd.Flags().IntVarP(&numThreads, "threads", "n", 0, "number of shards / worker threads (required)")
	rootCmd.Flags().BoolVarP(&follow, "follow", "l", false, "follow symlinks when walking the filesystem directly")
	rootCmd.Flags().StringVar(&treeIndex, "tree", "", "archive from a prebuilt index file instead of walking the filesystem")
	rootCmd.Flags().BoolVar(&jsonFmt, "json", false, "the --tree index is JSON rather than binary")
	rootCmd.Flags().BoolVar(&compress, "compress", false, "gzip-compress each shard")

	rootCmd.MarkFlagRequired("file")
	rootCmd.MarkFlagRequired("threads")
}

func runTar(cmd *cobra.Command, args []string) error {
	if create == extract {
		return errors.New("exactly one of --create or --extract must be set")
	}

	runID := uuid.New().String()
	logger := log.With("run_id", runID, "archive", archive)

	if create {
		fromIndex := treeIndex != ""
		createTarget := target
		if fromIndex {
			createTarget = treeIndex
		}

		logger.Info("creating archive", "threads", numThreads, "tree", fromIndex)
		err := tarengine.Create(tarengine.CreateOptions{
			ArchiveName: archive,
			Target:      createTarget,
			NumThreads:  numThreads,
			FollowLinks: follow,
			FromIndex:   fromIndex,
			JSONIndex:   jsonFmt,
			Compress:    compress,
		})
		if err != nil {
			return fmt.Errorf("create: %w", err)
		}
		fmt.Printf("Archive written to %s/\n", archive)
		return nil
	}

	logger.Info("extracting archive", "threads", numThreads)
	err := tarengine.Extract(tarengine.ExtractOptions{
		ArchiveName: archive,
		ArchiveDir:  archive,
		Destination: target,
		NumThreads:  numThreads,
		Compress:    compress,
	})
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	fmt.Printf("Archive extracted to %s\n", target)
	return nil
}

func main() {
	rootCmd.SetOut(io.Discard)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
