package hash

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/chazu/uwu/compiler"
)

// ---------------------------------------------------------------------------
// Deterministic binary serialization of the uwu AST.
//
// Encoding conventions:
//   - First byte: HashVersion (0x01)
//   - Integers: big-endian fixed-width (int64=8B)
//   - Floats: IEEE 754 big-endian 8B
//   - Strings: uint32 big-endian length + UTF-8 bytes
//   - Booleans: single byte (0/1)
//   - Sequences: uint32 big-endian count, then each element
//   - Child nodes: serialized inline (flat)
//   - Source spans are never written
// ---------------------------------------------------------------------------

// Serialize produces a deterministic byte serialization of an AST node.
// The returned bytes are suitable for hashing with SHA-256.
func Serialize(node compiler.Node) []byte {
	s := &serializer{buf: make([]byte, 0, 256)}
	s.writeByte(HashVersion)
	s.serializeNode(node)
	return s.buf
}

// SerializeProgram serializes a program followed by its sorted, de-duplicated
// globals. Two compilations that share both produce the same output.
func SerializeProgram(prog *compiler.Program, globals []string) []byte {
	s := &serializer{buf: make([]byte, 0, 256)}
	s.writeByte(HashVersion)
	s.serializeNode(prog)

	names := normalizeGlobals(globals)
	s.writeByte(TagGlobals)
	s.writeStrings(names)
	return s.buf
}

func normalizeGlobals(globals []string) []string {
	seen := make(map[string]bool, len(globals))
	names := make([]string, 0, len(globals))
	for _, g := range globals {
		if seen[g] {
			continue
		}
		seen[g] = true
		names = append(names, g)
	}
	sort.Strings(names)
	return names
}

type serializer struct {
	buf []byte
}

func (s *serializer) writeByte(b byte) {
	s.buf = append(s.buf, b)
}

func (s *serializer) writeUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	s.buf = append(s.buf, b[:]...)
}

func (s *serializer) writeInt64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	s.buf = append(s.buf, b[:]...)
}

func (s *serializer) writeFloat64(v float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	s.buf = append(s.buf, b[:]...)
}

func (s *serializer) writeString(v string) {
	s.writeUint32(uint32(len(v)))
	s.buf = append(s.buf, v...)
}

func (s *serializer) writeStrings(vs []string) {
	s.writeUint32(uint32(len(vs)))
	for _, v := range vs {
		s.writeString(v)
	}
}

func (s *serializer) writeBool(v bool) {
	if v {
		s.writeByte(1)
	} else {
		s.writeByte(0)
	}
}

func (s *serializer) writeExprs(exprs []compiler.Expr) {
	s.writeUint32(uint32(len(exprs)))
	for _, e := range exprs {
		s.serializeNode(e)
	}
}

func (s *serializer) writeStmts(stmts []compiler.Stmt) {
	s.writeUint32(uint32(len(stmts)))
	for _, st := range stmts {
		s.serializeNode(st)
	}
}

// writeBlock writes a body, or TagAbsent when there is none.
func (s *serializer) writeBlock(b *compiler.Block) {
	if b == nil {
		s.writeByte(TagAbsent)
		return
	}
	s.writeByte(TagBlock)
	s.writeStmts(b.Statements)
}

func (s *serializer) serializeNode(node compiler.Node) {
	switch n := node.(type) {
	case *compiler.IntLiteral:
		s.writeByte(TagIntLiteral)
		s.writeInt64(n.Value)

	case *compiler.FloatLiteral:
		s.writeByte(TagFloatLiteral)
		s.writeFloat64(n.Value)

	case *compiler.StringLiteral:
		s.writeByte(TagStringLiteral)
		s.writeString(n.Value)

	case *compiler.BoolLiteral:
		s.writeByte(TagBoolLiteral)
		s.writeBool(n.Value)

	case *compiler.ArrayLiteral:
		s.writeByte(TagArrayLiteral)
		s.writeExprs(n.Elements)

	case *compiler.MapLiteral:
		s.writeByte(TagMapLiteral)
		s.writeUint32(uint32(len(n.Entries)))
		for _, e := range n.Entries {
			s.serializeNode(e.Key)
			s.serializeNode(e.Value)
		}

	case *compiler.Ident:
		s.writeByte(TagIdent)
		s.writeString(n.Name)

	case *compiler.Let:
		s.writeByte(TagLet)
		s.writeString(n.Name)
		s.serializeNode(n.Value)

	case *compiler.Assign:
		s.writeByte(TagAssign)
		s.serializeNode(n.Target)
		s.serializeNode(n.Value)

	case *compiler.Prefix:
		s.writeByte(TagPrefix)
		s.writeString(n.Operator)
		s.serializeNode(n.Operand)

	case *compiler.Infix:
		s.writeByte(TagInfix)
		s.writeString(n.Operator)
		s.serializeNode(n.Left)
		s.serializeNode(n.Right)

	case *compiler.Index:
		s.writeByte(TagIndex)
		s.serializeNode(n.Base)
		s.serializeNode(n.Key)

	case *compiler.Accessor:
		s.writeByte(TagAccessor)
		s.serializeNode(n.Base)
		s.writeStrings(n.Names)

	case *compiler.Call:
		s.writeByte(TagCall)
		s.serializeNode(n.Callee)
		s.writeExprs(n.Args)

	case *compiler.MacroCall:
		s.writeByte(TagMacroCall)
		s.serializeNode(n.Name)
		s.writeExprs(n.Args)

	case *compiler.Regex:
		s.writeByte(TagRegex)
		s.serializeNode(n.Pattern)
		s.writeString(n.Flags)

	case *compiler.FuncLiteral:
		s.writeByte(TagFuncLiteral)
		s.writeString(n.Name)
		s.writeStrings(n.Params)
		s.writeBlock(n.Body)

	case *compiler.While:
		s.writeByte(TagWhile)
		s.serializeNode(n.Cond)
		s.writeBlock(n.Body)

	case *compiler.If:
		s.writeByte(TagIf)
		s.serializeNode(n.Cond)
		s.writeBlock(n.Consequence)
		s.writeBlock(n.Alternative)

	case *compiler.ExprStmt:
		s.writeByte(TagExprStmt)
		s.serializeNode(n.Expr)

	case *compiler.Return:
		s.writeByte(TagReturn)
		s.serializeNode(n.Value)

	case *compiler.Blank:
		s.writeByte(TagBlank)

	case *compiler.Block:
		s.writeBlock(n)

	case *compiler.Program:
		s.writeByte(TagProgram)
		s.writeStmts(n.Statements)

	default:
		// nil or unknown node
		s.writeByte(TagAbsent)
	}
}
