package nbt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	root := NewCompound()
	root.SetName("hello world")
	require.NoError(t, root.Set("name", String("Bananrama")))

	want := `TAG_Compound("hello world"): 1 entries
{
  TAG_String("name"): "Bananrama"
}
`
	assert.Equal(t, want, Dump(root, "  "))
}

func TestDumpNested(t *testing.T) {
	inner := NewCompound()
	require.NoError(t, inner.Set("created-on", Long(1264099775885)))

	root := NewCompound()
	root.SetName("Level")
	require.NoError(t, root.Set("data", ByteArray(make([]int8, 1000))))
	list, err := ListOf(TypeCompound, inner)
	require.NoError(t, err)
	require.NoError(t, root.Set("nested", list))

	want := `TAG_Compound("Level"): 2 entries
{
  TAG_Byte_Array("data"): [1000 bytes]
  TAG_List("nested"): 1 entries of TAG_Compound
  {
    TAG_Compound(""): 1 entries
    {
      TAG_Long("created-on"): 1264099775885
    }
  }
}
`
	assert.Equal(t, want, Dump(root, "  "))
}
