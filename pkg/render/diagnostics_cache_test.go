package render

import "testing"

func TestDiagnosticsCacheGetMiss(t *testing.T) {
	c := NewDiagnosticsCache(4)
	if _, _, ok := c.Get(1, 1); ok {
		t.Error("expected miss on empty cache")
	}
}

func TestDiagnosticsCachePutGet(t *testing.T) {
	c := NewDiagnosticsCache(4)
	lm := LineMap{3: {1}}
	rm := RangeMap{"3:0-3:5": "unused variable"}

	c.Put(1, 1, lm, rm)

	gotLM, gotRM, ok := c.Get(1, 1)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(gotLM[3]) != 1 || gotLM[3][0] != 1 {
		t.Errorf("unexpected line map: %v", gotLM)
	}
	if gotRM["3:0-3:5"] != "unused variable" {
		t.Errorf("unexpected range map: %v", gotRM)
	}
}

func TestDiagnosticsCacheEpochIsolatesEntries(t *testing.T) {
	c := NewDiagnosticsCache(4)
	c.Put(1, 1, LineMap{1: {0}}, nil)
	c.Put(1, 2, LineMap{2: {0}}, nil)

	if _, _, ok := c.Get(1, 1); !ok {
		t.Error("expected epoch 1 entry to remain cached")
	}
	if _, _, ok := c.Get(1, 2); !ok {
		t.Error("expected epoch 2 entry to remain cached")
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
}

func TestDiagnosticsCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewDiagnosticsCache(2)
	c.Put(1, 1, LineMap{1: {0}}, nil)
	c.Put(1, 2, LineMap{2: {0}}, nil)

	// Touch epoch 1 so epoch 2 becomes the least-recently-used entry.
	c.Get(1, 1)

	c.Put(1, 3, LineMap{3: {0}}, nil)

	if _, _, ok := c.Get(1, 2); ok {
		t.Error("expected epoch 2 to be evicted as least-recently-used")
	}
	if _, _, ok := c.Get(1, 1); !ok {
		t.Error("expected epoch 1 to survive eviction")
	}
	if _, _, ok := c.Get(1, 3); !ok {
		t.Error("expected epoch 3 to be present")
	}
	if c.Len() != 2 {
		t.Errorf("expected capacity to cap entries at 2, got %d", c.Len())
	}
}

func TestDiagnosticsCachePutOverwritesExistingEntry(t *testing.T) {
	c := NewDiagnosticsCache(4)
	c.Put(1, 1, LineMap{1: {0}}, nil)
	c.Put(1, 1, LineMap{1: {2}}, nil)

	lm, _, ok := c.Get(1, 1)
	if !ok {
		t.Fatal("expected hit")
	}
	if lm[1][0] != 2 {
		t.Errorf("expected overwritten entry, got %v", lm)
	}
	if c.Len() != 1 {
		t.Errorf("expected overwrite not to grow entry count, got %d", c.Len())
	}
}

func TestDiagnosticsCacheInvalidateDocumentDropsAllEpochs(t *testing.T) {
	c := NewDiagnosticsCache(4)
	c.Put(1, 1, LineMap{1: {0}}, nil)
	c.Put(1, 2, LineMap{2: {0}}, nil)
	c.Put(2, 1, LineMap{3: {0}}, nil)

	c.InvalidateDocument(1)

	if _, _, ok := c.Get(1, 1); ok {
		t.Error("expected doc 1 epoch 1 invalidated")
	}
	if _, _, ok := c.Get(1, 2); ok {
		t.Error("expected doc 1 epoch 2 invalidated")
	}
	if _, _, ok := c.Get(2, 1); !ok {
		t.Error("expected doc 2 entries to survive doc 1's invalidation")
	}
}

func TestDiagnosticsCacheZeroCapacityIsUnbounded(t *testing.T) {
	c := NewDiagnosticsCache(0)
	for i := DiagEpoch(1); i <= 10; i++ {
		c.Put(1, i, LineMap{int(i): {0}}, nil)
	}
	if c.Len() != 10 {
		t.Errorf("expected zero capacity to mean unbounded, got %d entries", c.Len())
	}
}
