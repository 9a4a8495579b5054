// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package fstree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// serializedNode is the wire form of a TreeNode: a flat, JSON/msgpack
// friendly mirror of the in-memory tree, separating topology from the
// immutable struct fields Go can tag directly.
type serializedNode struct {
	Name          string            `json:"name" msgpack:"name"`
	Path          string            `json:"path" msgpack:"path"`
	Kind          string            `json:"kind" msgpack:"kind"`
	Size          int64             `json:"size,omitempty" msgpack:"size,omitempty"`
	SymlinkTarget string            `json:"symlink_target,omitempty" msgpack:"symlink_target,omitempty"`
	UnknownReason string            `json:"unknown_reason,omitempty" msgpack:"unknown_reason,omitempty"`
	Children      []*serializedNode `json:"children,omitempty" msgpack:"children,omitempty"`
	Metadata      *NodeMetadata     `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
	Hash          *string           `json:"hash,omitempty" msgpack:"hash,omitempty"`
}

func kindToString(k Kind) (string, error) {
	switch k {
	case KindFile:
		return "file", nil
	case KindDirectory:
		return "directory", nil
	case KindSymlink:
		return "symlink", nil
	case KindSocket:
		return "socket", nil
	case KindFifo:
		return "fifo", nil
	case KindDevice:
		return "device", nil
	case KindUnknown:
		return "unknown", nil
	default:
		return "", fmt.Errorf("%w: unrecognized kind %d", ErrSerialization, k)
	}
}

func kindFromString(s string) (Kind, error) {
	switch s {
	case "file":
		return KindFile, nil
	case "directory":
		return KindDirectory, nil
	case "symlink":
		return KindSymlink, nil
	case "socket":
		return KindSocket, nil
	case "fifo":
		return KindFifo, nil
	case "device":
		return KindDevice, nil
	case "unknown":
		return KindUnknown, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized kind %q", ErrSerialization, s)
	}
}

// toSerializable converts n (and its subtree) into its wire form, capturing
// whatever metadata/hash have already been computed.
func (n *TreeNode) toSerializable() (*serializedNode, error) {
	kindStr, err := kindToString(n.Kind)
	if err != nil {
		return nil, err
	}

	s := &serializedNode{
		Name:          n.Name,
		Path:          n.Path,
		Kind:          kindStr,
		Size:          n.Size,
		SymlinkTarget: n.SymlinkTarget,
		UnknownReason: n.UnknownReason,
	}

	if meta, ok := n.ReadMetadata(); ok {
		m := meta
		s.Metadata = &m
	}
	if hash, ok := n.ReadHash(); ok {
		h := hash
		s.Hash = &h
	}

	for _, child := range n.Children {
		cs, err := child.toSerializable()
		if err != nil {
			return nil, err
		}
		s.Children = append(s.Children, cs)
	}

	return s, nil
}

// fromSerializable reconstructs a TreeNode (and subtree) from its wire form,
// re-priming the metadata/hash slots with whatever had been persisted.
func fromSerializable(s *serializedNode) (*TreeNode, error) {
	kind, err := kindFromString(s.Kind)
	if err != nil {
		return nil, err
	}

	n := &TreeNode{
		Name:          s.Name,
		Path:          s.Path,
		Kind:          kind,
		Size:          s.Size,
		SymlinkTarget: s.SymlinkTarget,
		UnknownReason: s.UnknownReason,
	}

	for _, cs := range s.Children {
		child, err := fromSerializable(cs)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}

	if s.Metadata != nil {
		if _, err := n.metadata.compute(func() (NodeMetadata, error) { return *s.Metadata, nil }); err != nil {
			return nil, err
		}
	}
	if s.Hash != nil {
		if _, err := n.hash.compute(func() (string, error) { return *s.Hash, nil }); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// WriteJSON serializes n as pretty-printed, 2-space-indented JSON.
func (n *TreeNode) WriteJSON(w io.Writer) error {
	s, err := n.toSerializable()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return nil
}

// ReadJSON deserializes a tree previously written by WriteJSON.
func ReadJSON(r io.Reader) (*TreeNode, error) {
	var s serializedNode
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return fromSerializable(&s)
}

// WriteBinary serializes n as msgpack with sorted map keys, so two encodes
// of the same tree always produce identical bytes.
func (n *TreeNode) WriteBinary(w io.Writer) error {
	s, err := n.toSerializable()
	if err != nil {
		return err
	}
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return nil
}

// ReadBinary deserializes a tree previously written by WriteBinary.
func ReadBinary(r io.Reader) (*TreeNode, error) {
	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	var s serializedNode
	if err := msgpack.Unmarshal(buf.Bytes(), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return fromSerializable(&s)
}
