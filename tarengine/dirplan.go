// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package tarengine

import (
	"os"
	"sort"
	"strings"
	"sync"
)

// dirEntry is one directory's staged state in a DirPlan: the mode the
// archive wants it to end up with, a priority used to resolve conflicts
// between shards that both mention the same directory, and (if this
// directory was only touched to permit child creation) its original mode to
// restore afterward.
type dirEntry struct {
	desiredMode  os.FileMode
	hasDesired   bool
	priority     int
	originalMode os.FileMode
	touched      bool
}

// DirPlan records directory permissions seen during extraction so they can
// be finalized after every file has been written. Shards run concurrently
// and may each touch the same directory, so all access is guarded by a
// mutex.
type DirPlan struct {
	mu      sync.Mutex
	entries map[string]*dirEntry
}

// NewDirPlan creates an empty DirPlan.
func NewDirPlan() *DirPlan {
	return &DirPlan{entries: make(map[string]*dirEntry)}
}

// Want records that dir should end up with mode once extraction completes.
// On conflict (two shards wanting different modes for the same directory),
// the call with the higher priority wins.
func (p *DirPlan) Want(dir string, mode os.FileMode, priority int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e := p.entries[dir]
	if e == nil {
		e = &dirEntry{}
		p.entries[dir] = e
	}
	if !e.hasDesired || priority >= e.priority {
		e.desiredMode = mode
		e.hasDesired = true
		e.priority = priority
	}
}

// EnsureOwnerWritable records dir's current mode (if not already recorded)
// and grants the owner write+execute bits so children can be created inside
// it.
func EnsureOwnerWritable(plan *DirPlan, dir string) error {
	plan.mu.Lock()
	e := plan.entries[dir]
	if e == nil {
		e = &dirEntry{}
		plan.entries[dir] = e
	}
	alreadyTouched := e.touched
	plan.mu.Unlock()

	if alreadyTouched {
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return err
	}

	plan.mu.Lock()
	e.originalMode = info.Mode().Perm()
	e.touched = true
	plan.mu.Unlock()

	if info.Mode().Perm()&0o300 == 0o300 {
		return nil
	}
	return chmodOwnerWritable(dir, info.Mode().Perm())
}

// Finalize applies each directory's desired mode in deepest-first order,
// then restores the original mode for any directory that was only touched
// to permit writes and never given an explicit desired mode.
func (p *DirPlan) Finalize() error {
	p.mu.Lock()
	dirs := make([]string, 0, len(p.entries))
	for d := range p.entries {
		dirs = append(dirs, d)
	}
	p.mu.Unlock()

	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(os.PathSeparator)) > strings.Count(dirs[j], string(os.PathSeparator))
	})

	for _, dir := range dirs {
		p.mu.Lock()
		e := p.entries[dir]
		p.mu.Unlock()

		if e.hasDesired {
			if err := applyMode(dir, e.desiredMode); err != nil {
				return err
			}
			continue
		}
		if e.touched {
			if err := applyMode(dir, e.originalMode); err != nil {
				return err
			}
		}
	}
	return nil
}
