package nbt

import (
	"fmt"
	"strings"
)

// Dump renders a tag tree as indented debug text, one line per scalar and
// a braced block per container, in the same general style as the format
// author's example output:
//
//	TAG_Compound("hello world"): 1 entries
//	{
//	  TAG_String("name"): "Bananrama"
//	}
//
// indentUnit is repeated once per nesting level. Dump has no wire-format
// impact and makes no guarantee of stability across releases.
func Dump(t *Tag, indentUnit string) string {
	var sb strings.Builder
	dump(&sb, t, 0, indentUnit)
	return sb.String()
}

func dump(sb *strings.Builder, t *Tag, depth int, unit string) {
	pad := strings.Repeat(unit, depth)
	if t == nil {
		fmt.Fprintf(sb, "%s<nil>\n", pad)
		return
	}
	switch t.typ {
	case TypeByte:
		fmt.Fprintf(sb, "%s%s(%q): %d\n", pad, t.typ, t.name, t.byteVal)
	case TypeShort:
		fmt.Fprintf(sb, "%s%s(%q): %d\n", pad, t.typ, t.name, t.shortVal)
	case TypeInt:
		fmt.Fprintf(sb, "%s%s(%q): %d\n", pad, t.typ, t.name, t.intVal)
	case TypeLong:
		fmt.Fprintf(sb, "%s%s(%q): %d\n", pad, t.typ, t.name, t.longVal)
	case TypeFloat:
		fmt.Fprintf(sb, "%s%s(%q): %g\n", pad, t.typ, t.name, t.floatVal)
	case TypeDouble:
		fmt.Fprintf(sb, "%s%s(%q): %g\n", pad, t.typ, t.name, t.doubleVal)
	case TypeString:
		fmt.Fprintf(sb, "%s%s(%q): %q\n", pad, t.typ, t.name, t.strVal)
	case TypeByteArray:
		fmt.Fprintf(sb, "%s%s(%q): [%d bytes]\n", pad, t.typ, t.name, len(t.byteArr))
	case TypeIntArray:
		fmt.Fprintf(sb, "%s%s(%q): [%d integers]\n", pad, t.typ, t.name, len(t.intArr))
	case TypeLongArray:
		fmt.Fprintf(sb, "%s%s(%q): [%d longs]\n", pad, t.typ, t.name, len(t.longArr))
	case TypeList:
		fmt.Fprintf(sb, "%s%s(%q): %d entries of %s\n%s{\n", pad, t.typ, t.name, len(t.listVal), t.elemType, pad)
		for _, elem := range t.listVal {
			dump(sb, elem, depth+1, unit)
		}
		fmt.Fprintf(sb, "%s}\n", pad)
	case TypeCompound:
		fmt.Fprintf(sb, "%s%s(%q): %d entries\n%s{\n", pad, t.typ, t.name, len(t.entries), pad)
		for _, e := range t.entries {
			dump(sb, e.Tag, depth+1, unit)
		}
		fmt.Fprintf(sb, "%s}\n", pad)
	default:
		fmt.Fprintf(sb, "%s%s(%q)\n", pad, t.typ, t.name)
	}
}
