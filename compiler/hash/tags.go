package hash

// ---------------------------------------------------------------------------
// Frozen tag bytes for the hashing AST serialization format.
//
// IMPORTANT: These tags are FROZEN. Once assigned, a tag byte must never
// change meaning. Adding new tags is fine; changing existing ones breaks
// every artifact cached under a previously computed hash.
// ---------------------------------------------------------------------------

// HashVersion is the version prefix for the serialization format.
// Bumping this invalidates all existing content hashes.
const HashVersion byte = 1

// AST node type tags. Each tag uniquely identifies a node kind in the
// serialized byte stream.
const (
	TagReservedZero byte = 0x00 // version prefix / reserved

	// Literal values
	TagIntLiteral    byte = 0x01
	TagFloatLiteral  byte = 0x02
	TagStringLiteral byte = 0x03
	TagBoolLiteral   byte = 0x04
	TagArrayLiteral  byte = 0x05
	TagMapLiteral    byte = 0x06

	// References and bindings
	TagIdent  byte = 0x09
	TagLet    byte = 0x0A
	TagAssign byte = 0x0B

	// Operators and postfix forms
	TagPrefix    byte = 0x10
	TagInfix     byte = 0x11
	TagIndex     byte = 0x12
	TagAccessor  byte = 0x13
	TagCall      byte = 0x14
	TagMacroCall byte = 0x15
	TagRegex     byte = 0x16

	// Functions and control flow
	TagFuncLiteral byte = 0x18
	TagWhile       byte = 0x19
	TagIf          byte = 0x1A

	// Statements / structure
	TagExprStmt byte = 0x20
	TagReturn   byte = 0x21
	TagBlank    byte = 0x22
	TagBlock    byte = 0x23
	TagProgram  byte = 0x24

	// Absent optional child (an if without else, a nil expression)
	TagAbsent byte = 0x30

	// Trailer listing the pre-declared globals
	TagGlobals byte = 0x40

	// Reserved 0xFE-0xFF
)

// allTags lists every defined tag for uniqueness verification in tests.
var allTags = []byte{
	TagReservedZero,
	TagIntLiteral, TagFloatLiteral, TagStringLiteral, TagBoolLiteral,
	TagArrayLiteral, TagMapLiteral,
	TagIdent, TagLet, TagAssign,
	TagPrefix, TagInfix, TagIndex, TagAccessor, TagCall, TagMacroCall, TagRegex,
	TagFuncLiteral, TagWhile, TagIf,
	TagExprStmt, TagReturn, TagBlank, TagBlock, TagProgram,
	TagAbsent, TagGlobals,
}
