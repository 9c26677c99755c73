package nbt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wire bytes of an unnamed root compound holding one string child
// "mutf_8" = "❤" (E2 9D A4 in modified UTF-8).
var goldenString = []byte{
	0x0A, 0x00, 0x00, // TAG_Compound, name ""
	0x08, 0x00, 0x06, 'm', 'u', 't', 'f', '_', '8', // TAG_String "mutf_8"
	0x00, 0x03, 0xE2, 0x9D, 0xA4, // "❤"
	0x00, // TAG_End
}

func TestGoldenStringEncode(t *testing.T) {
	root := NewCompound()
	require.NoError(t, root.Set("mutf_8", String("❤")))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, root))
	assert.Equal(t, goldenString, buf.Bytes())
}

func TestGoldenStringDecode(t *testing.T) {
	root, err := Read(bytes.NewReader(goldenString))
	require.NoError(t, err)
	assert.Equal(t, "", root.Name())
	require.Equal(t, 1, root.Len())

	s, err := root.Get("mutf_8").AsString()
	require.NoError(t, err)
	assert.Equal(t, "❤", s)
}

func TestGoldenList(t *testing.T) {
	// Elements carry only their payload: no per-element kind byte, no name.
	want := []byte{
		0x09, 0x00, 0x02, 'x', 's', // TAG_List "xs"
		0x03,                   // element kind TAG_Int
		0x00, 0x00, 0x00, 0x03, // count 3
		0x00, 0x00, 0x00, 0x05,
		0x00, 0x00, 0x00, 0x06,
		0x00, 0x00, 0x00, 0x07,
	}

	xs, err := ListOf(TypeInt, Int(5), Int(6), Int(7))
	require.NoError(t, err)
	xs.SetName("xs")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, xs))
	assert.Equal(t, want, buf.Bytes())

	back, err := Read(bytes.NewReader(want))
	require.NoError(t, err)
	assert.True(t, xs.Equal(back))
	assert.Equal(t, "xs", back.Name())
}

func TestGoldenLittleEndian(t *testing.T) {
	// Every multi-byte field flips, including the name length prefix.
	want := []byte{
		0x02,       // TAG_Short
		0x01, 0x00, // name length 1
		's',
		0x02, 0x01, // 0x0102
	}

	sh := Short(0x0102)
	sh.SetName("s")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sh, WithLittleEndian()))
	assert.Equal(t, want, buf.Bytes())
}

func TestTruncationSweep(t *testing.T) {
	// Every proper prefix of a valid stream must fail cleanly, whatever
	// field the cut lands in.
	for n := 0; n < len(goldenString); n++ {
		_, err := Read(bytes.NewReader(goldenString[:n]))
		require.Error(t, err, "prefix of %d bytes", n)
		var eof *UnexpectedEOFError
		assert.ErrorAs(t, err, &eof, "prefix of %d bytes: got %v", n, err)
	}
}
