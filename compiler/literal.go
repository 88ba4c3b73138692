package compiler

import (
	"strconv"
	"strings"
)

// renderLiteral renders a literal value. Array elements and map entries
// that fail to render are skipped instead of failing the literal.
func (g *Generator) renderLiteral(lit Literal) (string, bool) {
	switch n := lit.(type) {
	case *IntLiteral:
		return FormatInt(n.Value), true
	case *FloatLiteral:
		return FormatFloat(n.Value), true
	case *StringLiteral:
		// Quotes were kept by the lexer; nothing is escaped here.
		return n.Value, true
	case *BoolLiteral:
		return strconv.FormatBool(n.Value), true
	case *ArrayLiteral:
		return g.renderArray(n), true
	case *MapLiteral:
		return g.renderMap(n)
	}
	return "", false
}

// renderArray renders [e0,e1,...]. A comma follows every rendered element
// except the last element of the literal, so a trailing comma remains when
// the final element is skipped.
func (g *Generator) renderArray(n *ArrayLiteral) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, elem := range n.Elements {
		text, ok := g.RenderExpr(elem)
		if !ok {
			continue
		}
		sb.WriteString(text)
		if i == len(n.Elements)-1 {
			break
		}
		sb.WriteString(",")
	}
	sb.WriteString("]")
	return sb.String()
}

// renderMap renders {k0:v0,k1:v1,...} with the same comma rule as arrays.
// The value is rendered first and an entry whose value fails is skipped.
// A key that fails fails the whole literal.
func (g *Generator) renderMap(n *MapLiteral) (string, bool) {
	var sb strings.Builder
	sb.WriteString("{")
	for i, entry := range n.Entries {
		value, ok := g.RenderExpr(entry.Value)
		if !ok {
			continue
		}
		key, ok := g.RenderExpr(entry.Key)
		if !ok {
			return "", false
		}
		sb.WriteString(key)
		sb.WriteString(":")
		sb.WriteString(value)
		if i == len(n.Entries)-1 {
			break
		}
		sb.WriteString(",")
	}
	sb.WriteString("}")
	return sb.String(), true
}

// FormatInt returns the canonical decimal text of an integer literal.
func FormatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// FormatFloat returns the shortest decimal text that round-trips v,
// without an exponent.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
