package app

import (
	"testing"

	"gitlab.com/tinyland/lab/xeno/pkg/document"
	"gitlab.com/tinyland/lab/xeno/pkg/layout"
)

func TestNewSessionNoFilesOpensOneScratchBuffer(t *testing.T) {
	s := NewSession(nil, nil)
	if len(s.bufs) != 1 {
		t.Fatalf("want 1 scratch buffer, got %d", len(s.bufs))
	}
	if s.tree.LeafCount() != 1 {
		t.Fatalf("want 1 leaf, got %d", s.tree.LeafCount())
	}
}

func TestNewSessionMultipleFilesSplitsTree(t *testing.T) {
	s := NewSession(nil, []string{"", "", ""})
	if len(s.bufs) != 3 {
		t.Fatalf("want 3 buffers, got %d", len(s.bufs))
	}
	if s.tree.LeafCount() != 3 {
		t.Fatalf("want 3 leaves, got %d", s.tree.LeafCount())
	}
}

func TestSessionWidgetsOneWidgetPerLeaf(t *testing.T) {
	s := NewSession(nil, []string{"", ""})
	widgets := s.Widgets(layout.Rect{X: 0, Y: 0, Width: 80, Height: 24})
	if len(widgets) != s.tree.LeafCount() {
		t.Fatalf("want %d widgets, got %d", s.tree.LeafCount(), len(widgets))
	}
	for _, w := range widgets {
		if w.ID() == "" {
			t.Errorf("widget has empty ID")
		}
	}
}

func TestFileTypeForExtension(t *testing.T) {
	cases := map[string]document.FileType{
		"main.go":  "go",
		"README":   "text",
		"a.b.json": "json",
	}
	for path, want := range cases {
		if got := fileTypeFor(path); got != want {
			t.Errorf("fileTypeFor(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestServerNotAttachedByDefault(t *testing.T) {
	s := NewSession(nil, nil)
	if _, ok := s.Server("go"); ok {
		t.Error("expected no language server attached before AttachLanguageServer")
	}
}
