package nbt

import (
	"math"
)

// TagType identifies the kind of a Tag. The numeric values are the wire
// discriminators and must never change.
type TagType uint8

const (
	TypeEnd TagType = iota // compound terminator, never a standalone value
	TypeByte
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeByteArray
	TypeString
	TypeList
	TypeCompound
	TypeIntArray
	TypeLongArray // later grammar revisions only
)

// String returns the conventional TAG_* name.
func (t TagType) String() string {
	switch t {
	case TypeEnd:
		return "TAG_End"
	case TypeByte:
		return "TAG_Byte"
	case TypeShort:
		return "TAG_Short"
	case TypeInt:
		return "TAG_Int"
	case TypeLong:
		return "TAG_Long"
	case TypeFloat:
		return "TAG_Float"
	case TypeDouble:
		return "TAG_Double"
	case TypeByteArray:
		return "TAG_Byte_Array"
	case TypeString:
		return "TAG_String"
	case TypeList:
		return "TAG_List"
	case TypeCompound:
		return "TAG_Compound"
	case TypeIntArray:
		return "TAG_Int_Array"
	case TypeLongArray:
		return "TAG_Long_Array"
	default:
		return "TAG_Unknown"
	}
}

func (t TagType) valid() bool {
	return t >= TypeByte && t <= TypeLongArray
}

// Entry is one named child of a Compound. Entries keep insertion order so
// that a decoded document re-encodes to the same byte sequence.
type Entry struct {
	Name string
	Tag  *Tag
}

// Tag is one node of the tree: a kind-tagged value with an optional name.
//
// The name is only meaningful for direct children of a Compound and for
// the document root; List elements are unnamed on the wire regardless of
// what their name field holds.
type Tag struct {
	typ  TagType
	name string

	// Scalar values (one valid based on typ)
	byteVal   int8
	shortVal  int16
	intVal    int32
	longVal   int64
	floatVal  float32
	doubleVal float64
	strVal    string

	// Sequence values
	byteArr []int8
	intArr  []int32
	longArr []int64

	// Containers
	elemType TagType // declared element kind of a List
	listVal  []*Tag
	entries  []Entry
}

// ============================================================
// Constructors
// ============================================================

// Byte creates a TAG_Byte.
func Byte(v int8) *Tag { return &Tag{typ: TypeByte, byteVal: v} }

// Short creates a TAG_Short.
func Short(v int16) *Tag { return &Tag{typ: TypeShort, shortVal: v} }

// Int creates a TAG_Int.
func Int(v int32) *Tag { return &Tag{typ: TypeInt, intVal: v} }

// Long creates a TAG_Long.
func Long(v int64) *Tag { return &Tag{typ: TypeLong, longVal: v} }

// Float creates a TAG_Float.
func Float(v float32) *Tag { return &Tag{typ: TypeFloat, floatVal: v} }

// Double creates a TAG_Double.
func Double(v float64) *Tag { return &Tag{typ: TypeDouble, doubleVal: v} }

// String creates a TAG_String.
func String(v string) *Tag { return &Tag{typ: TypeString, strVal: v} }

// ByteArray creates a TAG_Byte_Array. The slice is not copied.
func ByteArray(v []int8) *Tag { return &Tag{typ: TypeByteArray, byteArr: v} }

// IntArray creates a TAG_Int_Array. The slice is not copied.
func IntArray(v []int32) *Tag { return &Tag{typ: TypeIntArray, intArr: v} }

// LongArray creates a TAG_Long_Array. The slice is not copied.
func LongArray(v []int64) *Tag { return &Tag{typ: TypeLongArray, longArr: v} }

// NewList creates an empty TAG_List whose elements must all be of kind
// elem. The declared kind is fixed for the lifetime of the list and is
// preserved even while the list is empty.
func NewList(elem TagType) *Tag {
	return &Tag{typ: TypeList, elemType: elem}
}

// ListOf creates a TAG_List of kind elem containing the given elements.
// It fails with a *TypeMismatchError if any element is of another kind.
func ListOf(elem TagType, elems ...*Tag) (*Tag, error) {
	l := NewList(elem)
	for _, e := range elems {
		if err := l.Append(e); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// NewCompound creates an empty TAG_Compound.
func NewCompound() *Tag {
	return &Tag{typ: TypeCompound}
}

// ============================================================
// Accessors
// ============================================================

// Type returns the tag's kind.
func (t *Tag) Type() TagType {
	if t == nil {
		return TypeEnd
	}
	return t.typ
}

// Name returns the tag's name ("" for unnamed tags).
func (t *Tag) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// SetName sets the tag's name. Prefer Compound.Set, which names the child
// from its key as part of the same call.
func (t *Tag) SetName(name string) { t.name = name }

// AsByte returns the TAG_Byte value.
func (t *Tag) AsByte() (int8, error) {
	if t == nil || t.typ != TypeByte {
		return 0, &TypeMismatchError{Want: TypeByte, Got: t.Type()}
	}
	return t.byteVal, nil
}

// AsShort returns the TAG_Short value.
func (t *Tag) AsShort() (int16, error) {
	if t == nil || t.typ != TypeShort {
		return 0, &TypeMismatchError{Want: TypeShort, Got: t.Type()}
	}
	return t.shortVal, nil
}

// AsInt returns the TAG_Int value.
func (t *Tag) AsInt() (int32, error) {
	if t == nil || t.typ != TypeInt {
		return 0, &TypeMismatchError{Want: TypeInt, Got: t.Type()}
	}
	return t.intVal, nil
}

// AsLong returns the TAG_Long value.
func (t *Tag) AsLong() (int64, error) {
	if t == nil || t.typ != TypeLong {
		return 0, &TypeMismatchError{Want: TypeLong, Got: t.Type()}
	}
	return t.longVal, nil
}

// AsFloat returns the TAG_Float value.
func (t *Tag) AsFloat() (float32, error) {
	if t == nil || t.typ != TypeFloat {
		return 0, &TypeMismatchError{Want: TypeFloat, Got: t.Type()}
	}
	return t.floatVal, nil
}

// AsDouble returns the TAG_Double value.
func (t *Tag) AsDouble() (float64, error) {
	if t == nil || t.typ != TypeDouble {
		return 0, &TypeMismatchError{Want: TypeDouble, Got: t.Type()}
	}
	return t.doubleVal, nil
}

// AsString returns the TAG_String value.
func (t *Tag) AsString() (string, error) {
	if t == nil || t.typ != TypeString {
		return "", &TypeMismatchError{Want: TypeString, Got: t.Type()}
	}
	return t.strVal, nil
}

// AsByteArray returns the TAG_Byte_Array elements.
func (t *Tag) AsByteArray() ([]int8, error) {
	if t == nil || t.typ != TypeByteArray {
		return nil, &TypeMismatchError{Want: TypeByteArray, Got: t.Type()}
	}
	return t.byteArr, nil
}

// AsIntArray returns the TAG_Int_Array elements.
func (t *Tag) AsIntArray() ([]int32, error) {
	if t == nil || t.typ != TypeIntArray {
		return nil, &TypeMismatchError{Want: TypeIntArray, Got: t.Type()}
	}
	return t.intArr, nil
}

// AsLongArray returns the TAG_Long_Array elements.
func (t *Tag) AsLongArray() ([]int64, error) {
	if t == nil || t.typ != TypeLongArray {
		return nil, &TypeMismatchError{Want: TypeLongArray, Got: t.Type()}
	}
	return t.longArr, nil
}

// Len returns the number of elements of a List, entries of a Compound, or
// elements of an array kind; 0 for scalars.
func (t *Tag) Len() int {
	if t == nil {
		return 0
	}
	switch t.typ {
	case TypeList:
		return len(t.listVal)
	case TypeCompound:
		return len(t.entries)
	case TypeByteArray:
		return len(t.byteArr)
	case TypeIntArray:
		return len(t.intArr)
	case TypeLongArray:
		return len(t.longArr)
	default:
		return 0
	}
}

// ============================================================
// List operations
// ============================================================

// Elem returns the declared element kind of a TAG_List.
func (t *Tag) Elem() TagType {
	if t == nil || t.typ != TypeList {
		return TypeEnd
	}
	return t.elemType
}

// At returns the i-th element of a TAG_List.
func (t *Tag) At(i int) (*Tag, error) {
	if t == nil || t.typ != TypeList {
		return nil, &TypeMismatchError{Want: TypeList, Got: t.Type()}
	}
	if i < 0 || i >= len(t.listVal) {
		return nil, &TypeMismatchError{Want: TypeList, Got: t.typ}
	}
	return t.listVal[i], nil
}

// Elements returns the elements of a TAG_List.
func (t *Tag) Elements() []*Tag {
	if t == nil || t.typ != TypeList {
		return nil
	}
	return t.listVal
}

// Append adds an element to a TAG_List. The element's kind must equal the
// list's declared kind; anything else fails with a *TypeMismatchError.
func (t *Tag) Append(elem *Tag) error {
	if t == nil || t.typ != TypeList {
		return &TypeMismatchError{Want: TypeList, Got: t.Type()}
	}
	if elem.Type() != t.elemType {
		return &TypeMismatchError{Want: t.elemType, Got: elem.Type()}
	}
	t.listVal = append(t.listVal, elem)
	return nil
}

// AppendInt converts v to the list's declared integer kind and appends it.
// The conversion is explicit and fallible: a value outside the kind's
// range fails with a *TypeMismatchError instead of wrapping silently.
func (t *Tag) AppendInt(v int64) error {
	if t == nil || t.typ != TypeList {
		return &TypeMismatchError{Want: TypeList, Got: t.Type()}
	}
	elem, err := intTag(t.elemType, v)
	if err != nil {
		return err
	}
	t.listVal = append(t.listVal, elem)
	return nil
}

// AppendFloat converts v to the list's declared floating-point kind and
// appends it. Fails with a *TypeMismatchError for non-float lists.
func (t *Tag) AppendFloat(v float64) error {
	if t == nil || t.typ != TypeList {
		return &TypeMismatchError{Want: TypeList, Got: t.Type()}
	}
	switch t.elemType {
	case TypeFloat:
		t.listVal = append(t.listVal, Float(float32(v)))
	case TypeDouble:
		t.listVal = append(t.listVal, Double(v))
	default:
		return &TypeMismatchError{Want: t.elemType, Got: TypeDouble}
	}
	return nil
}

// intTag wraps v in the given integer kind, range-checked.
func intTag(kind TagType, v int64) (*Tag, error) {
	switch kind {
	case TypeByte:
		if v < math.MinInt8 || v > math.MaxInt8 {
			return nil, &TypeMismatchError{Want: kind, Got: TypeLong}
		}
		return Byte(int8(v)), nil
	case TypeShort:
		if v < math.MinInt16 || v > math.MaxInt16 {
			return nil, &TypeMismatchError{Want: kind, Got: TypeLong}
		}
		return Short(int16(v)), nil
	case TypeInt:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, &TypeMismatchError{Want: kind, Got: TypeLong}
		}
		return Int(int32(v)), nil
	case TypeLong:
		return Long(v), nil
	default:
		return nil, &TypeMismatchError{Want: kind, Got: TypeLong}
	}
}

// ============================================================
// Compound operations
// ============================================================

// Get returns the child with the given name, or nil if absent.
func (t *Tag) Get(name string) *Tag {
	if t == nil || t.typ != TypeCompound {
		return nil
	}
	for _, e := range t.entries {
		if e.Name == name {
			return e.Tag
		}
	}
	return nil
}

// Set inserts child under name, setting the child's name to match the key
// as part of the same call; name and key never diverge. An existing entry
// of the same name is replaced in place, keeping its position.
func (t *Tag) Set(name string, child *Tag) error {
	if t == nil || t.typ != TypeCompound {
		return &TypeMismatchError{Want: TypeCompound, Got: t.Type()}
	}
	if child == nil || !child.typ.valid() {
		return &TypeMismatchError{Want: TypeCompound, Got: child.Type()}
	}
	child.name = name
	for i := range t.entries {
		if t.entries[i].Name == name {
			t.entries[i].Tag = child
			return nil
		}
	}
	t.entries = append(t.entries, Entry{Name: name, Tag: child})
	return nil
}

// Delete removes the child with the given name, reporting whether it
// was present.
func (t *Tag) Delete(name string) bool {
	if t == nil || t.typ != TypeCompound {
		return false
	}
	for i := range t.entries {
		if t.entries[i].Name == name {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Keys returns the entry names of a TAG_Compound in insertion order.
func (t *Tag) Keys() []string {
	if t == nil || t.typ != TypeCompound {
		return nil
	}
	keys := make([]string, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.Name
	}
	return keys
}

// Entries returns the entries of a TAG_Compound in insertion order.
func (t *Tag) Entries() []Entry {
	if t == nil || t.typ != TypeCompound {
		return nil
	}
	return t.entries
}

// ============================================================
// Equality
// ============================================================

// Equal reports structural equality: same kind, same name, same value,
// with element order significant in Lists and Compounds.
func (t *Tag) Equal(o *Tag) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.typ != o.typ || t.name != o.name {
		return false
	}
	switch t.typ {
	case TypeByte:
		return t.byteVal == o.byteVal
	case TypeShort:
		return t.shortVal == o.shortVal
	case TypeInt:
		return t.intVal == o.intVal
	case TypeLong:
		return t.longVal == o.longVal
	case TypeFloat:
		return t.floatVal == o.floatVal
	case TypeDouble:
		return t.doubleVal == o.doubleVal
	case TypeString:
		return t.strVal == o.strVal
	case TypeByteArray:
		if len(t.byteArr) != len(o.byteArr) {
			return false
		}
		for i := range t.byteArr {
			if t.byteArr[i] != o.byteArr[i] {
				return false
			}
		}
		return true
	case TypeIntArray:
		if len(t.intArr) != len(o.intArr) {
			return false
		}
		for i := range t.intArr {
			if t.intArr[i] != o.intArr[i] {
				return false
			}
		}
		return true
	case TypeLongArray:
		if len(t.longArr) != len(o.longArr) {
			return false
		}
		for i := range t.longArr {
			if t.longArr[i] != o.longArr[i] {
				return false
			}
		}
		return true
	case TypeList:
		if t.elemType != o.elemType || len(t.listVal) != len(o.listVal) {
			return false
		}
		for i := range t.listVal {
			if !t.listVal[i].Equal(o.listVal[i]) {
				return false
			}
		}
		return true
	case TypeCompound:
		if len(t.entries) != len(o.entries) {
			return false
		}
		for i := range t.entries {
			if t.entries[i].Name != o.entries[i].Name || !t.entries[i].Tag.Equal(o.entries[i].Tag) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
