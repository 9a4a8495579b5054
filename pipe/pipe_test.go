// Copyright 2026 The parallel-tar Authors
// SPDX-License-Identifier: Apache-2.0

package pipe

import (
	"sync"
	"testing"
	"time"
)

func TestTryRecvPatientReceives(t *testing.T) {
	p := New[int](1)
	p.Send(42)

	v, ok := p.TryRecvPatient()
	if !ok {
		t.Fatalf("expected an item")
	}
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
}

func TestTryRecvPatientAbortsOnCompleted(t *testing.T) {
	p := New[int](0)
	p.SetCompleted()

	start := time.Now()
	_, ok := p.TryRecvPatient()
	if ok {
		t.Fatalf("expected no item once completed")
	}
	if elapsed := time.Since(start); elapsed > Delay*2 {
		t.Fatalf("TryRecvPatient took too long to abort: %v", elapsed)
	}
}

func TestCollectExpectedCollectsAll(t *testing.T) {
	p := New[int](0)
	const n = 11

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			p.Send(i)
		}
	}()

	got := p.CollectExpected(n)
	wg.Wait()

	if len(got) != n {
		t.Fatalf("collected %d items, want %d", len(got), n)
	}
}

func TestSetCompletedIsSticky(t *testing.T) {
	p := New[int](0)
	if p.GetCompleted() {
		t.Fatalf("expected not completed initially")
	}
	p.SetCompleted()
	if !p.GetCompleted() {
		t.Fatalf("expected completed after SetCompleted")
	}
}
