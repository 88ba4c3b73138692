package cache

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Entry is one cached compilation result.
type Entry struct {
	Hash      [32]byte  `cbor:"1,keyasint"`
	Output    string    `cbor:"2,keyasint"`
	Compiler  string    `cbor:"3,keyasint"` // banner of the compiler that produced Output
	CreatedAt time.Time `cbor:"4,keyasint"`
}

// cborEncMode uses canonical mode for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	opts := cbor.CanonicalEncOptions()
	opts.Time = cbor.TimeUnix
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("cache: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalEntry serializes an Entry to CBOR bytes.
func MarshalEntry(e *Entry) ([]byte, error) {
	data, err := cborEncMode.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("cache: marshal entry: %w", err)
	}
	return data, nil
}

// UnmarshalEntry deserializes an Entry from CBOR bytes.
func UnmarshalEntry(data []byte) (*Entry, error) {
	var e Entry
	if err := cbor.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("cache: unmarshal entry: %w", err)
	}
	return &e, nil
}
