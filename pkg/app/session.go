package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tinyland/lab/xeno/pkg/buffer"
	"gitlab.com/tinyland/lab/xeno/pkg/document"
	"gitlab.com/tinyland/lab/xeno/pkg/layout"
	"gitlab.com/tinyland/lab/xeno/pkg/lsp"
	"gitlab.com/tinyland/lab/xeno/pkg/render"
)

// Session is the top-level object that ties pkg/document, pkg/buffer,
// and pkg/layout together into the Widget set AppModel renders: it
// opens one Document+Buffer per file argument, arranges their ViewIds
// in a left-to-right split.Tree, and renders each visible leaf into a
// render.DocPlan threaded through a documentPlanWidget. It also owns
// the optional per-language LSP server processes those buffers attach
// to.
//
// Grounded on original_source/crates/editor's top-level Editor struct,
// which plays the same "owns documents+buffers+layout+lsp clients"
// role; here simplified to what cmd/xeno's TUI entrypoint needs to
// turn CLI file arguments into a renderable frame.
type Session struct {
	docs map[document.Id]*document.Document
	bufs map[buffer.Id]*buffer.Buffer
	viewBuf map[layout.ViewId]*buffer.Buffer
	tree *layout.Tree

	servers map[string]*lsp.ServerProcess

	nextDoc document.Id
	nextBuf buffer.Id
	firstTgt layout.ViewId

	log *slog.Logger
}

// NewSession opens one buffer per path in paths (best-effort: unreadable
// files become empty scratch buffers rather than aborting the whole
// session) and arranges them left-to-right in a single split.Tree.
func NewSession(log *slog.Logger, paths []string) *Session {
	s := &Session{
		docs: make(map[document.Id]*document.Document),
		bufs: make(map[buffer.Id]*buffer.Buffer),
		viewBuf: make(map[layout.ViewId]*buffer.Buffer),
		servers: make(map[string]*lsp.ServerProcess),
		log: log,
	}

	if len(paths) == 0 {
		paths = []string{""}
	}
	for _, p := range paths {
		s.openBuffer(p)
	}
	return s
}

func (s *Session) openBuffer(path string) {
	content := ""
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			content = string(b)
		} else if s.log != nil {
			s.log.Warn("could not read file, opening empty buffer", "path", path, "error", err)
		}
	}

	s.nextDoc++
	docID := s.nextDoc
	doc := document.New(docID, fileTypeFor(path), content)
	s.docs[docID] = doc

	s.nextBuf++
	bufID := s.nextBuf
	buf := buffer.New(bufID, doc)
	s.bufs[bufID] = buf

	view := layout.ViewId(bufID)
	if s.tree == nil {
		s.tree = layout.NewTree(view)
		s.firstTgt = view
	} else {
		// Best-effort: a pathological 1x1 preflight failure here just
		// means the new buffer has no visible leaf yet.
		s.tree.SplitHorizontal(s.firstTgt, view, layout.Rect{X: 0, Y: 0, Width: 80, Height: 24}, 10, 3)
	}
	s.viewBuf[view] = buf
}

func fileTypeFor(path string) document.FileType {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch ext {
	case "":
		return document.FileType("text")
	default:
		return document.FileType(ext)
	}
}

// AttachLanguageServer starts (if not already running) the server
// process for languageID using the given launch command, and registers
// it for later lookup by Server. The caller is responsible for deciding
// which languages are enabled (pkg/config's LSPConfig).
func (s *Session) AttachLanguageServer(ctx context.Context, languageID, command string, args ...string) error {
	if _, ok := s.servers[languageID]; ok {
		return nil
	}
	sp, err := lsp.StartServerProcess(ctx, s.log, command, args...)
	if err != nil {
		return err
	}
	s.servers[languageID] = sp
	return nil
}

// Server returns the attached language server process for languageID,
// if one has been started via AttachLanguageServer.
func (s *Session) Server(languageID string) (*lsp.ServerProcess, bool) {
	sp, ok := s.servers[languageID]
	return sp, ok
}

// Shutdown cancels every attached language server's pending requests.
// It does not block on process exit; callers that need a clean exit
// should cancel the context passed to AttachLanguageServer instead.
func (s *Session) Shutdown() {
	for _, sp := range s.servers {
		sp.CancelPending()
	}
}

// Widgets renders the current layout tree into one documentPlanWidget
// per visible leaf, suitable for NewAppModel. area is the frame area to
// lay the split tree out against; plain-text styling (no syntax
// highlight spans) is used since no syntax.Manager is wired to a
// Session yet.
func (s *Session) Widgets(area layout.Rect) []Widget {
	plans := render.BuildDocumentViewPlans(
		area,
		s.tree,
		func(v layout.ViewId) (*buffer.Buffer, bool) {
			b, ok := s.viewBuf[v]
			return b, ok
		},
		func(b *buffer.Buffer) int {
			n := b.Document().Rope().LineCount()
			w := 1
			for n >= 10 {
				n /= 10
				w++
			}
			return w + 1
		},
		plainStyleLine,
		plainGutterLine,
	)

	widgets := make([]Widget, 0, len(plans))
	for _, p := range plans {
		widgets = append(widgets, NewDocumentPlanWidget(viewWidgetID(p.ViewID), p))
	}
	return widgets
}

func viewWidgetID(v layout.ViewId) string {
	return "view-" + itoa(uint32(v))
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

func plainStyleLine(b *buffer.Buffer, lineIdx int, width int) render.Line {
	rp := b.Document().Rope()
	if lineIdx < 0 || lineIdx >= rp.LineCount() {
		return render.Line{}
	}
	text := strings.TrimRight(rp.LineText(lineIdx), "\n")
	if width > 0 && len(text) > width {
		text = text[:width]
	}
	return render.Line{Text: text}
}

func plainGutterLine(b *buffer.Buffer, lineIdx int, width int) render.Line {
	if lineIdx < 0 || lineIdx >= b.Document().Rope().LineCount() {
		return render.Line{Text: strings.Repeat(" ", width)}
	}
	n := itoa(uint32(lineIdx + 1))
	if len(n) >= width {
		return render.Line{Text: n}
	}
	return render.Line{Text: strings.Repeat(" ", width-len(n)) + n}
}
