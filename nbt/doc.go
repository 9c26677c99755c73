// Package nbt implements the Named Binary Tag format, a compact
// self-describing binary tree used to persist nested game-state data.
//
// # Data Model
//
// A document is a tree of Tags. Each Tag has one of twelve kinds:
//
//	Scalars:    Byte, Short, Int, Long, Float, Double
//	Sequences:  ByteArray, IntArray, LongArray
//	Text:       String (modified UTF-8, see package mutf8)
//	Containers: List (homogeneous, unnamed elements), Compound (name-keyed)
//
// Kind 0 (End) is the compound terminator on the wire and never appears
// as a standalone value.
//
// Tags directly inside a Compound carry a name; elements of a List carry
// none, since the list header already declares the shared element kind.
//
// # Documents
//
// Load and Save handle the outer framing: an optional whole-stream
// compression layer (gzip or zlib, sniffed by default), big- or
// little-endian integers, and the vendor-specific fixed-size headers some
// game editions prepend to the root tag. A loaded Document is the root
// Compound; its children are accessed through the Document directly.
//
// # Example
//
//	doc := nbt.New("")
//	doc.Set("greeting", nbt.String("hello"))
//	var buf bytes.Buffer
//	if err := doc.Save(&buf, nbt.WithCompression(nbt.CompressionNone)); err != nil {
//		...
//	}
//
// All decode errors are fatal to the operation in progress: a truncated
// or misparsed tag desynchronizes every following byte offset, so there
// is no partial-tree recovery.
package nbt
