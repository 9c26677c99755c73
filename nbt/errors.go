package nbt

import (
	"fmt"
)

// UnexpectedEOFError is returned when the source is exhausted mid-value.
// It is fatal to the whole decode: there is no partial-tree recovery.
type UnexpectedEOFError struct {
	Offset int64 // byte offset at which the short read occurred
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("nbt: unexpected end of input at offset %d", e.Offset)
}

// UnknownTagError is returned for a kind-id byte outside the known table.
type UnknownTagError struct {
	ID     byte
	Offset int64
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("nbt: unknown tag kind 0x%02X at offset %d", e.ID, e.Offset)
}

// NotCompoundError is returned when a document's leading kind-id byte is
// not TAG_Compound (0x0A).
type NotCompoundError struct {
	Got byte
}

func (e *NotCompoundError) Error() string {
	return fmt.Sprintf("nbt: document does not begin with TAG_Compound: got 0x%02X", e.Got)
}

// LengthError is returned for a negative or structurally impossible
// declared length.
type LengthError struct {
	What   string // "byte array", "list", ...
	Length int32
	Offset int64
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("nbt: malformed %s length %d at offset %d", e.What, e.Length, e.Offset)
}

// DepthError is returned when input nesting exceeds the configured limit.
type DepthError struct {
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("nbt: nesting exceeds depth limit %d", e.Limit)
}

// TypeMismatchError is returned when a value of the wrong kind is used
// where a specific kind is required: inserting into a typed List, reading
// a scalar through the wrong accessor, or converting out of range.
type TypeMismatchError struct {
	Want TagType
	Got  TagType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("nbt: type mismatch: want %s, got %s", e.Want, e.Got)
}
