package hash

import "testing"

func TestTagUniqueness(t *testing.T) {
	seen := make(map[byte]bool, len(allTags))
	for _, tag := range allTags {
		if seen[tag] {
			t.Errorf("duplicate tag: 0x%02X", tag)
		}
		seen[tag] = true
	}
}

func TestTagsInRange(t *testing.T) {
	for _, tag := range allTags {
		if tag >= 0xFE {
			t.Errorf("tag 0x%02X is in reserved range 0xFE-0xFF", tag)
		}
	}
}

func TestHashVersionNonZero(t *testing.T) {
	if HashVersion == 0 {
		t.Error("HashVersion must be non-zero")
	}
}

func TestMarkerTagsDistinctFromNodeTags(t *testing.T) {
	nodeTags := map[byte]string{
		TagIntLiteral: "IntLiteral", TagFloatLiteral: "FloatLiteral",
		TagStringLiteral: "StringLiteral", TagBoolLiteral: "BoolLiteral",
		TagArrayLiteral: "ArrayLiteral", TagMapLiteral: "MapLiteral",
		TagIdent: "Ident", TagLet: "Let", TagAssign: "Assign",
		TagPrefix: "Prefix", TagInfix: "Infix", TagIndex: "Index",
		TagAccessor: "Accessor", TagCall: "Call", TagMacroCall: "MacroCall",
		TagRegex: "Regex", TagFuncLiteral: "FuncLiteral", TagWhile: "While",
		TagIf: "If", TagExprStmt: "ExprStmt", TagReturn: "Return",
		TagBlank: "Blank", TagBlock: "Block", TagProgram: "Program",
	}
	for _, marker := range []byte{TagReservedZero, TagAbsent, TagGlobals} {
		if name, ok := nodeTags[marker]; ok {
			t.Errorf("marker 0x%02X collides with %s", marker, name)
		}
	}
	if len(nodeTags)+3 != len(allTags) {
		t.Errorf("allTags has %d entries, want %d node tags plus 3 markers", len(allTags), len(nodeTags))
	}
}
