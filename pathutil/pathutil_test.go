// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package pathutil

import (
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"a/./b":      "a/b",
		"a/b/../c":   "a/c",
		"../a":       "../a",
		"a/../../b":  "../b",
		"/a/../../b": "/b",
		".":          ".",
		"":           ".",
		"/":          "/",
		"/a/./b/..":  "/a",
	}
	for in, want := range cases {
		got := Normalize(filepath.FromSlash(in))
		wantNative := filepath.FromSlash(want)
		if got != wantNative {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, wantNative)
		}
	}
}

func TestAnalyzeRelativeStaysInCWD(t *testing.T) {
	base, rel, hasBase, err := Analyze("foo/bar")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if hasBase {
		t.Fatalf("expected hasBase=false for a path inside cwd, got base=%q", base)
	}
	if rel != filepath.FromSlash("foo/bar") {
		t.Fatalf("rel = %q, want foo/bar", rel)
	}
}

func TestAnalyzeRelativeEscapesCWD(t *testing.T) {
	base, rel, hasBase, err := Analyze("../../escaped")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !hasBase {
		t.Fatalf("expected hasBase=true for a path escaping cwd")
	}
	if rel != "escaped" {
		t.Fatalf("rel = %q, want escaped", rel)
	}
	if base == "" {
		t.Fatalf("expected non-empty base")
	}
}

func TestAnalyzeAbsolute(t *testing.T) {
	base, rel, hasBase, err := Analyze("/a/b/c")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !hasBase {
		t.Fatalf("expected hasBase=true for an absolute path")
	}
	if base != filepath.FromSlash("/a/b") || rel != "c" {
		t.Fatalf("got base=%q rel=%q, want /a/b c", base, rel)
	}
}

func TestAnalyzeRoot(t *testing.T) {
	_, rel, hasBase, err := Analyze("/")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !hasBase {
		t.Fatalf("expected hasBase=true for root")
	}
	if rel != "." {
		t.Fatalf("rel = %q, want .", rel)
	}
}

func TestSanitizeRel(t *testing.T) {
	cases := []struct {
		in string
		rel string
		ok bool
	}{
		{"a/b/c", "a/b/c", true},
		{"./a/./b", "a/b", true},
		{"/a/b", "a/b", true},
		{"a/../b", "", false},
		{"..", "", false},
		{"../a", "", false},
		{".", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		rel, ok := SanitizeRel(c.in)
		if ok != c.ok {
			t.Errorf("SanitizeRel(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && rel != filepath.FromSlash(c.rel) {
			t.Errorf("SanitizeRel(%q) = %q, want %q", c.in, rel, c.rel)
		}
	}
}
