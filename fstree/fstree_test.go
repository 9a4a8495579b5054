// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package fstree

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

// buildSampleTree constructs root = {a/f1 (10 bytes), a/f2 (empty), b/ (empty dir)}.
func buildSampleTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "a"), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "b"), 0o700); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "a", "f1"), []byte("0123456789"))
	writeFile(t, filepath.Join(root, "a", "f2"), nil)
	return root
}

func TestHashDeterminismAcrossBuilds(t *testing.T) {
	root := buildSampleTree(t)

	tree1, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := tree1.ComputeMetadata(); err != nil {
		t.Fatalf("ComputeMetadata: %v", err)
	}
	hash1, err := tree1.ComputeHash(DigestSHA256)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}

	tree2, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := tree2.ComputeMetadata(); err != nil {
		t.Fatalf("ComputeMetadata: %v", err)
	}
	hash2, err := tree2.ComputeHash(DigestSHA256)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}

	if hash1 != hash2 {
		t.Fatalf("hashes differ across builds: %s != %s", hash1, hash2)
	}
}

func TestSymlinkHash(t *testing.T) {
	root := t.TempDir()
	linkPath := filepath.Join(root, "link")
	if err := os.Symlink("target", linkPath); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	tree, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	rootHash, err := tree.ComputeHash(DigestSHA256)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}

	linkHash := hashString("target", DigestSHA256)
	want := hashString("link"+linkHash, DigestSHA256)
	if rootHash != want {
		t.Fatalf("root hash = %s, want %s", rootHash, want)
	}
}

func TestMetadataReduction(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "f1"), make([]byte, 100))
	writeFile(t, filepath.Join(root, "f2"), make([]byte, 200))
	writeFile(t, filepath.Join(root, "f3"), make([]byte, 300))
	if err := os.Symlink("f1", filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	tree, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	meta, err := tree.ComputeMetadata()
	if err != nil {
		t.Fatalf("ComputeMetadata: %v", err)
	}

	if meta.SizeBytes != 600 || meta.FileCount != 4 || meta.DirCount != 1 {
		t.Fatalf("metadata = %+v, want {600 4 1}", meta)
	}
}

func TestSerializationRoundTrip(t *testing.T) {
	root := buildSampleTree(t)

	tree, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := tree.ComputeMetadata(); err != nil {
		t.Fatalf("ComputeMetadata: %v", err)
	}
	wantHash, err := tree.ComputeHash(DigestMD5)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	wantMeta, _ := tree.ReadMetadata()

	var jsonBuf bytes.Buffer
	if err := tree.WriteJSON(&jsonBuf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	reloadedJSON, err := ReadJSON(&jsonBuf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	gotMeta, ok := reloadedJSON.ReadMetadata()
	if !ok || gotMeta != wantMeta {
		t.Fatalf("JSON round trip metadata = %+v (ok=%v), want %+v", gotMeta, ok, wantMeta)
	}
	gotHash, ok := reloadedJSON.ReadHash()
	if !ok || gotHash != wantHash {
		t.Fatalf("JSON round trip hash = %q (ok=%v), want %q", gotHash, ok, wantHash)
	}

	var binBuf bytes.Buffer
	if err := tree.WriteBinary(&binBuf); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	reloadedBin, err := ReadBinary(&binBuf)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}
	gotMeta, ok = reloadedBin.ReadMetadata()
	if !ok || gotMeta != wantMeta {
		t.Fatalf("binary round trip metadata = %+v (ok=%v), want %+v", gotMeta, ok, wantMeta)
	}
	gotHash, ok = reloadedBin.ReadHash()
	if !ok || gotHash != wantHash {
		t.Fatalf("binary round trip hash = %q (ok=%v), want %q", gotHash, ok, wantHash)
	}
}

func TestChildrenSortedByName(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		writeFile(t, filepath.Join(root, name), nil)
	}

	tree, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var names []string
	for _, c := range tree.Children {
		names = append(names, c.Name)
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("children[%d] = %q, want %q (full: %v)", i, names[i], n, names)
		}
	}
}

func TestBuildEmptyPathIsInvalid(t *testing.T) {
	if _, err := Build(""); err == nil {
		t.Fatalf("expected an error for an empty path")
	}
}

func TestCollectAll(t *testing.T) {
	root := buildSampleTree(t)
	tree, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	all := tree.CollectAll()
	// root, a/, a/f1, a/f2, b/ = 5 nodes
	if len(all) != 5 {
		t.Fatalf("CollectAll returned %d nodes, want 5", len(all))
	}
}
