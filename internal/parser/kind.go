package parser

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrUnsupportedExpression indicates an expression node type outside the
// closed set below. It signals a classification table that needs extending,
// never input that should be guessed around.
var ErrUnsupportedExpression = errors.New("unsupported expression kind")

// ValueKind is the grammatical category of a JSX attribute value expression.
//
// Kinds whose trailing delimiter depends on grammatical form are split here
// so that each kind has exactly one delimiter shape: arrow functions split
// on body form, new-expressions on the presence of an argument list, and
// nested elements on self-closing form.
type ValueKind int

const (
	KindIdentifier ValueKind = iota
	KindMember
	KindNonNull
	KindConditional
	KindBinary
	KindUnary
	KindUpdate
	KindAwait
	KindTypeAssertion
	KindNumber
	KindBoolean
	KindNull
	KindUndefined
	KindRegex
	KindSequence
	KindArrowExpr
	KindNewBare
	KindString
	KindTemplate
	KindCall
	KindNewCall
	KindObject
	KindArray
	KindSubscript
	KindParenthesized
	KindArrowBlock
	KindFunction
	KindElement
	KindSelfClosingElement
	KindFragment
)

var kindNames = map[ValueKind]string{
	KindIdentifier:         "identifier",
	KindMember:             "member",
	KindNonNull:            "non-null",
	KindConditional:        "conditional",
	KindBinary:             "binary",
	KindUnary:              "unary",
	KindUpdate:             "update",
	KindAwait:              "await",
	KindTypeAssertion:      "type-assertion",
	KindNumber:             "number",
	KindBoolean:            "boolean",
	KindNull:               "null",
	KindUndefined:          "undefined",
	KindRegex:              "regex",
	KindSequence:           "sequence",
	KindArrowExpr:          "arrow-expression",
	KindNewBare:            "new-bare",
	KindString:             "string",
	KindTemplate:           "template",
	KindCall:               "call",
	KindNewCall:            "new-call",
	KindObject:             "object",
	KindArray:              "array",
	KindSubscript:          "subscript",
	KindParenthesized:      "parenthesized",
	KindArrowBlock:         "arrow-block",
	KindFunction:           "function",
	KindElement:            "element",
	KindSelfClosingElement: "self-closing-element",
	KindFragment:           "fragment",
}

func (k ValueKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ClassifyExpression maps an expression node found inside a braced JSX
// attribute value to its ValueKind.
func ClassifyExpression(n *sitter.Node) (ValueKind, error) {
	switch n.Type() {
	case "identifier", "this":
		return KindIdentifier, nil
	case "member_expression":
		return KindMember, nil
	case "non_null_expression":
		return KindNonNull, nil
	case "ternary_expression":
		return KindConditional, nil
	case "binary_expression":
		return KindBinary, nil
	case "unary_expression":
		return KindUnary, nil
	case "update_expression":
		return KindUpdate, nil
	case "await_expression":
		return KindAwait, nil
	case "as_expression", "satisfies_expression":
		return KindTypeAssertion, nil
	case "number":
		return KindNumber, nil
	case "true", "false":
		return KindBoolean, nil
	case "null":
		return KindNull, nil
	case "undefined":
		return KindUndefined, nil
	case "regex":
		return KindRegex, nil
	case "sequence_expression":
		return KindSequence, nil
	case "string":
		return KindString, nil
	case "template_string":
		return KindTemplate, nil
	case "call_expression":
		return KindCall, nil
	case "new_expression":
		// `new Foo()` ends in an argument list, `new Foo` does not.
		if n.ChildByFieldName("arguments") != nil {
			return KindNewCall, nil
		}
		return KindNewBare, nil
	case "object":
		return KindObject, nil
	case "array":
		return KindArray, nil
	case "subscript_expression":
		return KindSubscript, nil
	case "parenthesized_expression":
		return KindParenthesized, nil
	case "arrow_function":
		// Block bodies end in `}`, expression bodies end in the
		// expression itself.
		if body := n.ChildByFieldName("body"); body != nil && body.Type() == "statement_block" {
			return KindArrowBlock, nil
		}
		return KindArrowExpr, nil
	case "function", "function_expression":
		return KindFunction, nil
	case "jsx_element":
		return KindElement, nil
	case "jsx_self_closing_element":
		return KindSelfClosingElement, nil
	case "jsx_fragment":
		return KindFragment, nil
	}
	return 0, fmt.Errorf("node type %q: %w", n.Type(), ErrUnsupportedExpression)
}
