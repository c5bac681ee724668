package boundary

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagnav/internal/parser"
)

func parseDoc(t *testing.T, source string) *parser.Document {
	t.Helper()
	doc, err := parser.Parse(context.Background(), []byte(source))
	require.NoError(t, err)
	t.Cleanup(doc.Close)
	return doc
}

func TestTags(t *testing.T) {
	t.Run("open tag boundary precedes the closing bracket", func(t *testing.T) {
		doc := parseDoc(t, `<div>content</div>`)
		offsets, err := Tags(doc)
		require.NoError(t, err)
		assert.Equal(t, []int{3}, offsets, "closing tag must contribute no boundary")
	})

	t.Run("self-closing tag boundary precedes the terminator", func(t *testing.T) {
		doc := parseDoc(t, `<br/>`)
		offsets, err := Tags(doc)
		require.NoError(t, err)
		assert.Equal(t, []int{3}, offsets)
	})

	t.Run("nested elements in document order", func(t *testing.T) {
		// inner element ends at 17, outer at 21; both are
		// self-closing, so the boundary is end-2
		doc := parseDoc(t, `<a b={<c d="e" />} />`)
		offsets, err := Tags(doc)
		require.NoError(t, err)
		assert.Equal(t, []int{15, 19}, offsets)
	})

	t.Run("document without tags", func(t *testing.T) {
		doc := parseDoc(t, `const a = 1`)
		offsets, err := Tags(doc)
		require.NoError(t, err)
		assert.Empty(t, offsets)
	})
}

func TestAttributes(t *testing.T) {
	t.Run("boolean attribute lands at the name end", func(t *testing.T) {
		doc := parseDoc(t, `<input visible />`)
		offsets, err := Attributes(doc)
		require.NoError(t, err)
		assert.Equal(t, []int{14}, offsets)
	})

	t.Run("string value lands inside the closing quote", func(t *testing.T) {
		doc := parseDoc(t, `<input value="foo" />`)
		offsets, err := Attributes(doc)
		require.NoError(t, err)
		assert.Equal(t, []int{17}, offsets)
	})

	t.Run("spread attribute lands inside the closing brace", func(t *testing.T) {
		doc := parseDoc(t, `<a {...props} />`)
		offsets, err := Attributes(doc)
		require.NoError(t, err)
		assert.Equal(t, []int{12}, offsets)
	})

	t.Run("attributes of nested elements are included", func(t *testing.T) {
		doc := parseDoc(t, `<a b={<c d="e" />} />`)
		offsets, err := Attributes(doc)
		require.NoError(t, err)
		// inner d="e" ends at 14, outer b={...} holds a self-closing
		// element so its width is -3
		assert.Equal(t, []int{13, 15}, offsets)
	})

	t.Run("empty braced value fails loudly", func(t *testing.T) {
		doc := parseDoc(t, `<a b={} />`)
		_, err := Attributes(doc)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedNode)
	})

	t.Run("document without tags", func(t *testing.T) {
		doc := parseDoc(t, `const a = 1`)
		offsets, err := Attributes(doc)
		require.NoError(t, err)
		assert.Empty(t, offsets)
	})
}

// TestTrailingWidths pins the boundary of every expression kind in the
// closed set. The attribute is always `x=` at offset 3, so the attribute
// node ends at 5+len(value) and the boundary is that end plus the kind's
// trailing width.
func TestTrailingWidths(t *testing.T) {
	tests := []struct {
		name  string
		value string
		width int
	}{
		{"identifier", "{foo}", -1},
		{"member access", "{user.name}", -1},
		{"non-null assertion", "{value!}", -1},
		{"conditional", "{ok ? a : b}", -1},
		{"binary", "{a + b}", -1},
		{"unary", "{!open}", -1},
		{"update", "{i++}", -1},
		{"await", "{await p}", -1},
		{"type assertion", "{x as string}", -1},
		{"number", "{42}", -1},
		{"boolean", "{true}", -1},
		{"null", "{null}", -1},
		{"undefined", "{undefined}", -1},
		{"regex", "{/ab+c/g}", -1},
		{"sequence", "{a, b}", -1},
		{"arrow with expression body", "{() => x}", -1},
		{"new without arguments", "{new Registry}", -1},
		{"string expression", "{'label'}", -2},
		{"template", "{`label`}", -2},
		{"call", "{handle(x)}", -2},
		{"new with arguments", "{new Date()}", -2},
		{"object", "{{a: 1}}", -2},
		{"array", "{[1, 2]}", -2},
		{"subscript", "{items[0]}", -2},
		{"parenthesized", "{(x)}", -2},
		{"arrow with block body", "{() => { run() }}", -2},
		{"function expression", "{function () { return 1 }}", -2},
		{"nested element", "{<i>t</i>}", -2},
		{"nested fragment", "{<>t</>}", -2},
		{"nested self-closing element", "{<br/>}", -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseDoc(t, "<a x="+tt.value+" />")
			offsets, err := Attributes(doc)
			require.NoError(t, err)

			attrEnd := 5 + len(tt.value)
			assert.Contains(t, offsets, attrEnd+tt.width)
		})
	}
}

// TestTableCoversClosedSet guards the width table against grammar
// additions: every classifiable kind must have a width.
func TestTableCoversClosedSet(t *testing.T) {
	kinds := []parser.ValueKind{
		parser.KindIdentifier, parser.KindMember, parser.KindNonNull,
		parser.KindConditional, parser.KindBinary, parser.KindUnary,
		parser.KindUpdate, parser.KindAwait, parser.KindTypeAssertion,
		parser.KindNumber, parser.KindBoolean, parser.KindNull,
		parser.KindUndefined, parser.KindRegex, parser.KindSequence,
		parser.KindArrowExpr, parser.KindNewBare, parser.KindString,
		parser.KindTemplate, parser.KindCall, parser.KindNewCall,
		parser.KindObject, parser.KindArray, parser.KindSubscript,
		parser.KindParenthesized, parser.KindArrowBlock, parser.KindFunction,
		parser.KindElement, parser.KindSelfClosingElement, parser.KindFragment,
	}
	for _, kind := range kinds {
		width, ok := trailingWidth[kind]
		assert.True(t, ok, "kind %s has no trailing width", kind)
		assert.LessOrEqual(t, width, 0, "kind %s has a positive width", kind)
	}
}

func TestOffsetInvariants(t *testing.T) {
	source := `<section id={user.name} hidden {...rest}>` +
		`<img src="a.png" onLoad={() => done()} />` +
		`</section>`
	doc := parseDoc(t, source)

	for name, extract := range map[string]func(*parser.Document) ([]int, error){
		"tags":       Tags,
		"attributes": Attributes,
	} {
		t.Run(name, func(t *testing.T) {
			offsets, err := extract(doc)
			require.NoError(t, err)
			require.NotEmpty(t, offsets)

			assert.True(t, sort.IntsAreSorted(offsets))
			for i, off := range offsets {
				assert.GreaterOrEqual(t, off, 0)
				assert.Less(t, off, len(source))
				if i > 0 {
					assert.NotEqual(t, offsets[i-1], off, "duplicate offset")
				}
			}
		})
	}
}
