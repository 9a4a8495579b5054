// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package tarengine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateExtractRoundTrip(t *testing.T) {
	srcParent := t.TempDir()
	src := filepath.Join(srcParent, "payload")
	if err := os.MkdirAll(filepath.Join(src, "sub"), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "a.txt"), []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("world"), 0o600); err != nil {
		t.Fatal(err)
	}

	workDir := t.TempDir()
	origCwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(workDir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(origCwd)

	if err := Create(CreateOptions{
		ArchiveName: "payload-archive",
		Target:      src,
		NumThreads:  2,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	archiveDest := filepath.Join(workDir, "payload-archive")
	if _, err := os.Stat(archiveDest); err != nil {
		t.Fatalf("expected archive dir at %s: %v", archiveDest, err)
	}

	dest := filepath.Join(workDir, "extracted")
	if err := Extract(ExtractOptions{
		ArchiveName: "payload-archive",
		ArchiveDir:  archiveDest,
		Destination: dest,
		NumThreads:  2,
	}); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	// Every original file must be recoverable somewhere under dest,
	// regardless of the prefix stripping the walk applied.
	wantContents := map[string]string{"a.txt": "hello", "b.txt": "world"}
	found := map[string]bool{}
	filepath.WalkDir(dest, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := filepath.Base(path)
		want, ok := wantContents[name]
		if !ok {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("ReadFile(%s): %v", path, err)
			return nil
		}
		if string(data) != want {
			t.Errorf("content of %s = %q, want %q", path, data, want)
		}
		found[name] = true
		return nil
	})

	for name := range wantContents {
		if !found[name] {
			t.Errorf("expected to find %s under %s", name, dest)
		}
	}
}

func TestCreateRejectsExistingDestination(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "f"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	workDir := t.TempDir()
	origCwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(workDir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(origCwd)

	if err := os.MkdirAll(filepath.Join(workDir, "dup"), 0o700); err != nil {
		t.Fatal(err)
	}

	err = Create(CreateOptions{ArchiveName: "dup", Target: src, NumThreads: 1})
	if err == nil {
		t.Fatalf("expected an error when the archive destination already exists")
	}
}

func TestDirPlanFinalizeDeepestFirst(t *testing.T) {
	root := t.TempDir()
	parent := filepath.Join(root, "parent")
	child := filepath.Join(parent, "child")
	if err := os.MkdirAll(child, 0o700); err != nil {
		t.Fatal(err)
	}

	plan := NewDirPlan()
	plan.Want(parent, 0o700, 0)
	plan.Want(child, 0o700, 0)

	if err := plan.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
}
