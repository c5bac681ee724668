// Package boundary derives cursor-stop offsets from a parsed document.
//
// Two independent extractions exist: tag boundaries (one per open or
// self-closing element) and attribute boundaries (one per attribute,
// placed just inside the attribute's trailing delimiter punctuation).
package boundary

import (
	"errors"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"tagnav/internal/parser"
)

var (
	// ErrMalformedNode indicates a node whose shape or offsets make a
	// precise boundary impossible. Surfaced instead of approximated.
	ErrMalformedNode = errors.New("malformed node")

	// ErrUnsupportedKind indicates a classified expression kind missing
	// from the trailing-width table.
	ErrUnsupportedKind = errors.New("expression kind not in trailing-width table")
)

// elementQuery captures every open and self-closing element in the tree,
// including elements nested inside attribute expressions.
var elementQuery = []byte(`
	(jsx_opening_element) @element
	(jsx_self_closing_element) @element
`)

// trailingWidth maps each expression kind to the (non-positive) number of
// closing-syntax characters between the expression's meaningful content and
// the attribute node's end. Every width is the embedding `}` plus the
// kind's own guaranteed trailing delimiter:
//
//	-1  no delimiter of its own (identifier, ternary, literal keyword, ...)
//	-2  one trailing delimiter (quote, backtick, `)`, `]`, `}`, `>`)
//	-3  self-closing elements, whose `/>` terminator is two characters
//
// A kind absent from this table fails extraction with ErrUnsupportedKind.
var trailingWidth = map[parser.ValueKind]int{
	parser.KindIdentifier:         -1,
	parser.KindMember:             -1,
	parser.KindNonNull:            -1,
	parser.KindConditional:        -1,
	parser.KindBinary:             -1,
	parser.KindUnary:              -1,
	parser.KindUpdate:             -1,
	parser.KindAwait:              -1,
	parser.KindTypeAssertion:      -1,
	parser.KindNumber:             -1,
	parser.KindBoolean:            -1,
	parser.KindNull:               -1,
	parser.KindUndefined:          -1,
	parser.KindRegex:              -1,
	parser.KindSequence:           -1,
	parser.KindArrowExpr:          -1,
	parser.KindNewBare:            -1,
	parser.KindString:             -2,
	parser.KindTemplate:           -2,
	parser.KindCall:               -2,
	parser.KindNewCall:            -2,
	parser.KindObject:             -2,
	parser.KindArray:              -2,
	parser.KindSubscript:          -2,
	parser.KindParenthesized:      -2,
	parser.KindArrowBlock:         -2,
	parser.KindFunction:           -2,
	parser.KindElement:            -2,
	parser.KindFragment:           -2,
	parser.KindSelfClosingElement: -3,
}

// Tags returns the tag boundary for every open and self-closing element,
// ascending. Closing tags carry no navigation target and are skipped.
//
// The boundary is the character before the closing `>`: the last name or
// attribute character for an open tag, the `/` for a self-closing tag.
func Tags(doc *parser.Document) ([]int, error) {
	offsets := []int{}
	err := forEachElement(doc, func(el *sitter.Node) error {
		end := int(el.EndByte())
		off := end - 2
		if off < 0 || end > doc.Len() {
			return fmt.Errorf("tag node at %d..%d: %w", el.StartByte(), end, ErrMalformedNode)
		}
		offsets = append(offsets, off)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Ints(offsets)
	return dedupe(offsets), nil
}

// Attributes returns the attribute boundary for every attribute of every
// open and self-closing element, ascending.
func Attributes(doc *parser.Document) ([]int, error) {
	offsets := []int{}
	err := forEachElement(doc, func(el *sitter.Node) error {
		for i := 0; i < int(el.NamedChildCount()); i++ {
			child := el.NamedChild(i)
			switch child.Type() {
			case "jsx_attribute":
				off, err := attributeBoundary(doc, child)
				if err != nil {
					return err
				}
				offsets = append(offsets, off)
			case "jsx_expression":
				// Spread attribute: land just inside the `}`.
				off := int(child.EndByte()) - 1
				if off < 0 || off >= doc.Len() {
					return fmt.Errorf("spread attribute at %d..%d: %w", child.StartByte(), child.EndByte(), ErrMalformedNode)
				}
				offsets = append(offsets, off)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Ints(offsets)
	return dedupe(offsets), nil
}

// attributeBoundary computes the boundary for one named attribute.
func attributeBoundary(doc *parser.Document, attr *sitter.Node) (int, error) {
	start, end := int(attr.StartByte()), int(attr.EndByte())
	if start >= end || end > doc.Len() {
		return 0, fmt.Errorf("attribute node at %d..%d: %w", start, end, ErrMalformedNode)
	}

	if attr.NamedChildCount() == 0 {
		return 0, fmt.Errorf("attribute at %d has no name node: %w", start, ErrMalformedNode)
	}

	// Value-less (boolean) attribute: the node is just the name, and the
	// boundary sits exactly at its end.
	if attr.NamedChildCount() == 1 {
		return end, nil
	}

	value := attr.NamedChild(1)
	switch value.Type() {
	case "string", "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		// Land just inside the terminating quote or bracket.
		return end - 1, nil
	case "jsx_expression":
		inner := innerExpression(value)
		if inner == nil {
			return 0, fmt.Errorf("empty expression value at %d..%d: %w", value.StartByte(), value.EndByte(), ErrMalformedNode)
		}
		kind, err := parser.ClassifyExpression(inner)
		if err != nil {
			return 0, fmt.Errorf("attribute at %d: %w", start, err)
		}
		width, ok := trailingWidth[kind]
		if !ok {
			return 0, fmt.Errorf("kind %s: %w", kind, ErrUnsupportedKind)
		}
		return end + width, nil
	}
	return 0, fmt.Errorf("attribute value type %q at %d..%d: %w", value.Type(), value.StartByte(), value.EndByte(), ErrMalformedNode)
}

// innerExpression returns the expression node inside a braced value,
// skipping comments.
func innerExpression(expr *sitter.Node) *sitter.Node {
	for i := 0; i < int(expr.NamedChildCount()); i++ {
		child := expr.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		return child
	}
	return nil
}

// forEachElement runs visit over every open and self-closing element in
// the document, in query-capture order.
func forEachElement(doc *parser.Document, visit func(*sitter.Node) error) error {
	query, err := sitter.NewQuery(elementQuery, parser.Language())
	if err != nil {
		return fmt.Errorf("failed to create element query: %w", err)
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, doc.Root())

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			return nil
		}
		for _, capture := range match.Captures {
			if capture.Node == nil {
				continue
			}
			if err := visit(capture.Node); err != nil {
				return err
			}
		}
	}
}

// dedupe removes adjacent duplicates from a sorted slice.
func dedupe(sorted []int) []int {
	out := sorted[:0]
	for i, v := range sorted {
		if i > 0 && v == sorted[i-1] {
			continue
		}
		out = append(out, v)
	}
	return out
}
