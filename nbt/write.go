package nbt

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/cavern-io/nbt/mutf8"
)

func math32(bits uint32) float32 { return math.Float32frombits(bits) }
func math64(bits uint64) float64 { return math.Float64frombits(bits) }

// writer is the mirror image of reader: a sequential cursor that packs
// values in the configured endianness.
type writer struct {
	w     io.Writer
	order binary.ByteOrder
	off   int64
	buf   [8]byte
}

func newWriter(w io.Writer, cfg *config) *writer {
	return &writer{w: w, order: cfg.order}
}

func (wr *writer) write(b []byte) error {
	n, err := wr.w.Write(b)
	wr.off += int64(n)
	return err
}

func (wr *writer) u8(v byte) error {
	wr.buf[0] = v
	return wr.write(wr.buf[:1])
}

func (wr *writer) i16(v int16) error {
	wr.order.PutUint16(wr.buf[:2], uint16(v))
	return wr.write(wr.buf[:2])
}

func (wr *writer) u16(v uint16) error {
	wr.order.PutUint16(wr.buf[:2], v)
	return wr.write(wr.buf[:2])
}

func (wr *writer) i32(v int32) error {
	wr.order.PutUint32(wr.buf[:4], uint32(v))
	return wr.write(wr.buf[:4])
}

func (wr *writer) i64(v int64) error {
	wr.order.PutUint64(wr.buf[:8], uint64(v))
	return wr.write(wr.buf[:8])
}

// str writes a length-prefixed modified UTF-8 string. The prefix counts
// bytes, not characters, and cannot exceed 65535.
func (wr *writer) str(s string) error {
	raw := mutf8.Encode(s)
	if len(raw) > math.MaxUint16 {
		return &LengthError{What: "string", Length: int32(math.MaxUint16), Offset: wr.off}
	}
	if err := wr.u16(uint16(len(raw))); err != nil {
		return err
	}
	return wr.write(raw)
}

// Write encodes one named tag (kind id, name, payload) to w. Most callers
// want Document.Save, which also handles compression framing and vendor
// headers.
func Write(w io.Writer, t *Tag, opts ...Option) error {
	cfg := newConfig(opts)
	wr := newWriter(w, cfg)
	return wr.named(t)
}

// named writes the kind-id byte, the name, and the payload.
func (wr *writer) named(t *Tag) error {
	if t == nil || !t.typ.valid() {
		return &TypeMismatchError{Want: TypeCompound, Got: t.Type()}
	}
	if err := wr.u8(byte(t.typ)); err != nil {
		return err
	}
	if err := wr.str(t.name); err != nil {
		return err
	}
	return wr.payload(t)
}

// payload writes the value only. List elements re-enter here directly:
// no per-element kind id, no name, since the list header already declares
// the shared kind.
func (wr *writer) payload(t *Tag) error {
	switch t.typ {
	case TypeByte:
		return wr.u8(byte(t.byteVal))
	case TypeShort:
		return wr.i16(t.shortVal)
	case TypeInt:
		return wr.i32(t.intVal)
	case TypeLong:
		return wr.i64(t.longVal)
	case TypeFloat:
		return wr.i32(int32(math.Float32bits(t.floatVal)))
	case TypeDouble:
		return wr.i64(int64(math.Float64bits(t.doubleVal)))
	case TypeString:
		return wr.str(t.strVal)

	case TypeByteArray:
		if err := wr.i32(int32(len(t.byteArr))); err != nil {
			return err
		}
		raw := make([]byte, len(t.byteArr))
		for i, v := range t.byteArr {
			raw[i] = byte(v)
		}
		return wr.write(raw)

	case TypeIntArray:
		if err := wr.i32(int32(len(t.intArr))); err != nil {
			return err
		}
		for _, v := range t.intArr {
			if err := wr.i32(v); err != nil {
				return err
			}
		}
		return nil

	case TypeLongArray:
		if err := wr.i32(int32(len(t.longArr))); err != nil {
			return err
		}
		for _, v := range t.longArr {
			if err := wr.i64(v); err != nil {
				return err
			}
		}
		return nil

	case TypeList:
		if err := wr.u8(byte(t.elemType)); err != nil {
			return err
		}
		if err := wr.i32(int32(len(t.listVal))); err != nil {
			return err
		}
		for _, elem := range t.listVal {
			if err := wr.payload(elem); err != nil {
				return err
			}
		}
		return nil

	case TypeCompound:
		for _, e := range t.entries {
			if err := wr.named(e.Tag); err != nil {
				return err
			}
		}
		return wr.u8(byte(TypeEnd))

	default:
		return &TypeMismatchError{Want: TypeCompound, Got: t.typ}
	}
}
