package hash

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/chazu/uwu/compiler"
)

// HashProgram computes the SHA-256 content hash of a parsed program.
//
// The hash is computed over a deterministic serialization of the AST with
// source positions left out, so reformatting whitespace or comments does
// not change it. globals are part of the hash because they change which
// calls pass the scope check; their order and duplicates do not matter.
func HashProgram(prog *compiler.Program, globals []string) [32]byte {
	return sha256.Sum256(SerializeProgram(prog, globals))
}

// HashSource parses source and hashes the result. Parse errors are
// returned; the program up to the first error is still hashed.
func HashSource(source string, globals []string) ([32]byte, error) {
	prog, err := compiler.Parse(source)
	return HashProgram(prog, globals), err
}

// Hex returns the lowercase hex form of a hash.
func Hex(h [32]byte) string {
	return hex.EncodeToString(h[:])
}
