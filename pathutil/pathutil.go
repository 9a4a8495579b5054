// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

// Package pathutil provides lexical path normalization and sanitization
// used by tarengine. None of it touches the filesystem: it
// operates purely on path strings, the same way the indexer and tar engine
// need a stable notion of "base directory" and "relative path" before any
// stat/lstat call happens.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Analyze splits an input path into a base directory and a path relative to
// it, without touching the filesystem.
//
//   - absolute input: base is the parent of the lexically normalized path,
//     rel is its final component ("." if the path has no leaf, e.g. "/").
//   - relative input that lexically resolves (against the current working
//     directory) to a descendant of the working directory: base is "" (the
//     caller should treat this as "no directory change needed"), rel is the
//     path relative to the working directory.
//   - relative input that escapes the working directory: treated as the
//     absolute case, after resolving it against the working directory.
//
// The bool return reports whether base is meaningful (true) or whether the
// caller should stay in its current directory (false).
func Analyze(input string) (base string, rel string, hasBase bool, err error) {
	s := strings.TrimSpace(input)
	p := filepath.FromSlash(s)

	if filepath.IsAbs(p) {
		abs := Normalize(p)
		base, rel = splitAbsolute(abs)
		return base, rel, true, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", "", false, err
	}
	cwd = Normalize(cwd)
	abs := Normalize(filepath.Join(cwd, p))

	if hasPrefixPath(abs, cwd) {
		relFromCwd, relErr := filepath.Rel(cwd, abs)
		if relErr != nil {
			relFromCwd = ""
		}
		return "", relFromCwd, false, nil
	}

	base, rel = splitAbsolute(abs)
	return base, rel, true, nil
}

// hasPrefixPath reports whether abs is cwd itself or a descendant of it,
// compared component-wise rather than by raw string prefix (so "/foobar"
// is not considered a descendant of "/foo").
func hasPrefixPath(abs, cwd string) bool {
	if abs == cwd {
		return true
	}
	rel, err := filepath.Rel(cwd, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// splitAbsolute splits an already lexically normalized absolute path into
// (parent, leaf). A path with no leaf (e.g. the filesystem root) yields "."
// for leaf and the path itself for parent.
func splitAbsolute(abs string) (parent string, leaf string) {
	leaf = filepath.Base(abs)
	if leaf == "" || leaf == string(filepath.Separator) {
		return abs, "."
	}
	parent = filepath.Dir(abs)
	return parent, leaf
}

// Normalize lexically normalizes path: it removes "." components and
// resolves ".." by popping the preceding component, stopping at a root. If
// the path is relative and there is nothing left to pop, a literal ".." is
// preserved. It never accesses the filesystem (unlike filepath.EvalSymlinks)
// and never accesses cwd.
func Normalize(path string) string {
	isAbs := filepath.IsAbs(path)
	vol := filepath.VolumeName(path)
	rest := path[len(vol):]

	sep := string(filepath.Separator)
	parts := strings.Split(rest, sep)

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if n := len(out); n > 0 && out[n-1] != ".." {
				out = out[:n-1]
				continue
			}
			if isAbs {
				continue
			}
			out = append(out, "..")
		default:
			out = append(out, part)
		}
	}

	joined := strings.Join(out, sep)
	switch {
	case isAbs:
		return vol + sep + joined
	case joined == "":
		return "."
	default:
		return vol + joined
	}
}

// SanitizeRel prepares a path read out of an archive entry for safe
// extraction: it strips any leading root, volume prefix, and "." components,
// and rejects the path outright (returning ok=false) if it contains any ".."
// component, or if nothing is left once stripped. Callers must skip writing
// the entry entirely when ok is false.
func SanitizeRel(p string) (rel string, ok bool) {
	clean := filepath.ToSlash(p[len(filepath.VolumeName(p)):])
	clean = strings.TrimPrefix(clean, "/")

	parts := strings.Split(clean, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", false
		default:
			out = append(out, part)
		}
	}

	if len(out) == 0 {
		return "", false
	}
	return filepath.Join(out...), true
}
