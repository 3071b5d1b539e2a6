package syntax

import (
	"context"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"gitlab.com/tinyland/lab/xeno/pkg/document"
)

// ParserPool lends language-specific *sitter.Parser instances: parsers
// are not safe for concurrent reuse, so each language gets its own
// sync.Pool, grounded directly on
// vjache-cie/pkg/ingestion/parser_treesitter.go's goPool/pyPool/jsPool/
// tsPool layout.
type ParserPool struct {
	once sync.Once
	pools map[document.FileType]*sync.Pool
}

func languages() map[document.FileType]func() *sitter.Language {
	return map[document.FileType]func() *sitter.Language{
		"go": golang.GetLanguage,
		"python": python.GetLanguage,
		"javascript": javascript.GetLanguage,
		"typescript": typescript.GetLanguage,
	}
}

func (p *ParserPool) init() {
	p.once.Do(func() {
		p.pools = make(map[document.FileType]*sync.Pool)
		for ft, get := range languages() {
			lang := get
			p.pools[ft] = &sync.Pool{New: func() any {
				parser := sitter.NewParser()
				parser.SetLanguage(lang())
				return parser
			}}
		}
	})
}

// Supported reports whether the file type has a registered grammar.
func (p *ParserPool) Supported(ft document.FileType) bool {
	p.init()
	_, ok := p.pools[ft]
	return ok
}

// Parse runs a tree-sitter parse of src for the given file type, with
// ctx providing cancellation/timeout (a background full parse is
// canceled by new edits). old, if non-nil, must
// already have had document.Change ranges applied via tree.Edit by the
// caller so tree-sitter can reuse unaffected subtrees.
func (p *ParserPool) Parse(ctx context.Context, ft document.FileType, src []byte, old *sitter.Tree) (*sitter.Tree, error) {
	p.init()
	pool, ok := p.pools[ft]
	if !ok {
		return nil, errUnsupportedLanguage{ft}
	}
	parser := pool.Get().(*sitter.Parser)
	defer pool.Put(parser)
	if old != nil {
		parser.SetIncludedRanges(nil)
		return parser.ParseCtx(ctx, old, src)
	}
	return parser.ParseCtx(ctx, nil, src)
}

type errUnsupportedLanguage struct{ ft document.FileType }

func (e errUnsupportedLanguage) Error() string {
	return "syntax: unsupported language: " + string(e.ft)
}
