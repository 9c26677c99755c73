package nbt

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cavern-io/nbt/mutf8"
)

// arrayChunk bounds single allocations while reading array payloads, so a
// bogus huge declared length fails with a short read instead of exhausting
// memory up front.
const arrayChunk = 1 << 20

// reader is a sequential byte cursor with explicit endianness and offset
// tracking for error context.
type reader struct {
	r        io.Reader
	order    binary.ByteOrder
	off      int64
	buf      [8]byte
	depth    int
	maxDepth int
}

func newReader(r io.Reader, cfg *config) *reader {
	return &reader{r: r, order: cfg.order, maxDepth: cfg.maxDepth}
}

// read fills the scratch buffer with exactly n bytes (n <= 8).
func (rd *reader) read(n int) ([]byte, error) {
	b := rd.buf[:n]
	if _, err := io.ReadFull(rd.r, b); err != nil {
		return nil, &UnexpectedEOFError{Offset: rd.off}
	}
	rd.off += int64(n)
	return b, nil
}

func (rd *reader) u8() (byte, error) {
	b, err := rd.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (rd *reader) i16() (int16, error) {
	b, err := rd.read(2)
	if err != nil {
		return 0, err
	}
	return int16(rd.order.Uint16(b)), nil
}

func (rd *reader) u16() (uint16, error) {
	b, err := rd.read(2)
	if err != nil {
		return 0, err
	}
	return rd.order.Uint16(b), nil
}

func (rd *reader) i32() (int32, error) {
	b, err := rd.read(4)
	if err != nil {
		return 0, err
	}
	return int32(rd.order.Uint32(b)), nil
}

func (rd *reader) i64() (int64, error) {
	b, err := rd.read(8)
	if err != nil {
		return 0, err
	}
	return int64(rd.order.Uint64(b)), nil
}

// bytes reads exactly n raw bytes, in bounded chunks.
func (rd *reader) bytes(n int) ([]byte, error) {
	out := make([]byte, 0, min(n, arrayChunk))
	for len(out) < n {
		chunk := min(n-len(out), arrayChunk)
		start := len(out)
		out = append(out, make([]byte, chunk)...)
		if _, err := io.ReadFull(rd.r, out[start:]); err != nil {
			return nil, &UnexpectedEOFError{Offset: rd.off}
		}
		rd.off += int64(chunk)
	}
	return out, nil
}

// str reads a length-prefixed modified UTF-8 string.
func (rd *reader) str() (string, error) {
	n, err := rd.u16()
	if err != nil {
		return "", err
	}
	start := rd.off
	raw, err := rd.bytes(int(n))
	if err != nil {
		return "", err
	}
	s, err := mutf8.Decode(raw)
	if err != nil {
		return "", fmt.Errorf("nbt: string at offset %d: %w", start, err)
	}
	return s, nil
}

func (rd *reader) enter() error {
	rd.depth++
	if rd.depth > rd.maxDepth {
		return &DepthError{Limit: rd.maxDepth}
	}
	return nil
}

func (rd *reader) leave() { rd.depth-- }

// Read decodes one named tag (kind id, name, payload) from r. Most callers
// want Load, which also handles compression, endianness negotiation, and
// vendor headers; Read is the raw codec entry point.
func Read(r io.Reader, opts ...Option) (*Tag, error) {
	cfg := newConfig(opts)
	rd := newReader(r, cfg)
	return rd.named()
}

// named reads a kind-id byte, a name, and the payload.
func (rd *reader) named() (*Tag, error) {
	off := rd.off
	id, err := rd.u8()
	if err != nil {
		return nil, err
	}
	typ := TagType(id)
	if !typ.valid() {
		return nil, &UnknownTagError{ID: id, Offset: off}
	}
	name, err := rd.str()
	if err != nil {
		return nil, err
	}
	t, err := rd.payload(typ)
	if err != nil {
		return nil, err
	}
	t.name = name
	return t, nil
}

// payload decodes the value of a tag whose kind is already known from
// context (the kind byte of a named tag, or a list's element declaration).
func (rd *reader) payload(typ TagType) (*Tag, error) {
	switch typ {
	case TypeByte:
		v, err := rd.u8()
		if err != nil {
			return nil, err
		}
		return Byte(int8(v)), nil

	case TypeShort:
		v, err := rd.i16()
		if err != nil {
			return nil, err
		}
		return Short(v), nil

	case TypeInt:
		v, err := rd.i32()
		if err != nil {
			return nil, err
		}
		return Int(v), nil

	case TypeLong:
		v, err := rd.i64()
		if err != nil {
			return nil, err
		}
		return Long(v), nil

	case TypeFloat:
		v, err := rd.i32()
		if err != nil {
			return nil, err
		}
		return Float(math32(uint32(v))), nil

	case TypeDouble:
		v, err := rd.i64()
		if err != nil {
			return nil, err
		}
		return Double(math64(uint64(v))), nil

	case TypeString:
		s, err := rd.str()
		if err != nil {
			return nil, err
		}
		return String(s), nil

	case TypeByteArray:
		n, err := rd.length("byte array")
		if err != nil {
			return nil, err
		}
		raw, err := rd.bytes(n)
		if err != nil {
			return nil, err
		}
		arr := make([]int8, n)
		for i, b := range raw {
			arr[i] = int8(b)
		}
		return ByteArray(arr), nil

	case TypeIntArray:
		n, err := rd.length("int array")
		if err != nil {
			return nil, err
		}
		arr := make([]int32, 0, min(n, arrayChunk/4))
		for i := 0; i < n; i++ {
			v, err := rd.i32()
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return IntArray(arr), nil

	case TypeLongArray:
		n, err := rd.length("long array")
		if err != nil {
			return nil, err
		}
		arr := make([]int64, 0, min(n, arrayChunk/8))
		for i := 0; i < n; i++ {
			v, err := rd.i64()
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return LongArray(arr), nil

	case TypeList:
		return rd.list()

	case TypeCompound:
		return rd.compound()

	default:
		return nil, &UnknownTagError{ID: byte(typ), Offset: rd.off}
	}
}

// list decodes a list payload: element kind id, count, then count unnamed
// element payloads. Elements carry no per-element kind byte or name.
func (rd *reader) list() (*Tag, error) {
	if err := rd.enter(); err != nil {
		return nil, err
	}
	defer rd.leave()

	off := rd.off
	id, err := rd.u8()
	if err != nil {
		return nil, err
	}
	elem := TagType(id)
	count, err := rd.i32()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, &LengthError{What: "list", Length: count, Offset: off}
	}
	if elem == TypeEnd {
		// An empty list may declare TAG_End; a populated one never can.
		if count != 0 {
			return nil, &LengthError{What: "list of TAG_End", Length: count, Offset: off}
		}
		return NewList(TypeEnd), nil
	}
	if !elem.valid() {
		return nil, &UnknownTagError{ID: id, Offset: off}
	}

	l := NewList(elem)
	for i := int32(0); i < count; i++ {
		t, err := rd.payload(elem)
		if err != nil {
			return nil, err
		}
		l.listVal = append(l.listVal, t)
	}
	return l, nil
}

// compound decodes named children until the TAG_End terminator. Duplicate
// names are last-write-wins, matching the grammar's lack of a duplicate-key
// prohibition at decode time.
func (rd *reader) compound() (*Tag, error) {
	if err := rd.enter(); err != nil {
		return nil, err
	}
	defer rd.leave()

	c := NewCompound()
	for {
		off := rd.off
		id, err := rd.u8()
		if err != nil {
			return nil, err
		}
		if id == byte(TypeEnd) {
			return c, nil
		}
		typ := TagType(id)
		if !typ.valid() {
			return nil, &UnknownTagError{ID: id, Offset: off}
		}
		name, err := rd.str()
		if err != nil {
			return nil, err
		}
		child, err := rd.payload(typ)
		if err != nil {
			return nil, err
		}
		child.name = name
		if err := c.Set(name, child); err != nil {
			return nil, err
		}
	}
}

// length reads a 32-bit signed element count and rejects negatives.
func (rd *reader) length(what string) (int, error) {
	off := rd.off
	n, err := rd.i32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &LengthError{What: what, Length: n, Offset: off}
	}
	return int(n), nil
}
