// Package parser turns raw JSX/TSX text into a structural tree and
// classifies embedded attribute expressions into a closed set of kinds.
package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// ErrSyntax indicates the input is not well-formed TSX.
var ErrSyntax = errors.New("syntax error")

// Document is an immutable parsed snapshot of one source text.
// The tree never outlives the document; callers must Close it.
type Document struct {
	tree    *sitter.Tree
	content []byte
}

// Language returns the TSX grammar used for all parsing.
func Language() *sitter.Language {
	return tsx.GetLanguage()
}

// Parse parses content into a Document. It fails with ErrSyntax when the
// grammar cannot account for the full input; there is no partial recovery.
func Parse(ctx context.Context, content []byte) (*Document, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(Language())

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		offset := firstErrorOffset(root)
		tree.Close()
		return nil, fmt.Errorf("offset %d: %w", offset, ErrSyntax)
	}

	return &Document{tree: tree, content: content}, nil
}

// Root returns the root node of the parse tree.
func (d *Document) Root() *sitter.Node {
	return d.tree.RootNode()
}

// Content returns the source text the document was parsed from.
func (d *Document) Content() []byte {
	return d.content
}

// Len returns the source text length in bytes.
func (d *Document) Len() int {
	return len(d.content)
}

// Close releases the parse tree. The document is unusable afterwards.
func (d *Document) Close() {
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
}

// firstErrorOffset finds the start of the first error or missing node.
func firstErrorOffset(n *sitter.Node) uint32 {
	if n.IsMissing() || n.Type() == "ERROR" {
		return n.StartByte()
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		return firstErrorOffset(child)
	}
	return n.StartByte()
}
