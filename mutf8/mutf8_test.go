package mutf8

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBMP(t *testing.T) {
	// U+2764 is a plain three-byte sequence, identical to standard UTF-8.
	assert.Equal(t, []byte{0xE2, 0x9D, 0xA4}, Encode("❤"))
	assert.Equal(t, []byte("hello"), Encode("hello"))
	assert.Equal(t, []byte{0xC3, 0xA9}, Encode("é"))
}

func TestEncodeNull(t *testing.T) {
	// U+0000 must never produce a zero byte.
	got := Encode("a\x00b")
	assert.Equal(t, []byte{'a', 0xC0, 0x80, 'b'}, got)
	assert.NotContains(t, got, byte(0))
}

func TestEncodeSupplementary(t *testing.T) {
	// U+1F600 encodes as a CESU-8 surrogate pair (D83D DE00), never as a
	// four-byte sequence.
	got := Encode("\U0001F600")
	assert.Equal(t, []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}, got)
}

func TestEncodedLen(t *testing.T) {
	for _, s := range []string{"", "hello", "a\x00b", "é", "❤", "\U0001F600", "mixed \x00 héllo \U0001F680"} {
		assert.Equal(t, len(Encode(s)), EncodedLen(s), "EncodedLen(%q)", s)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain ascii", "a\x00b", "héllo wörld", "❤", "\U0001F600\U0001F680", "日本語"} {
		raw := Encode(s)
		got, err := Decode(raw)
		require.NoError(t, err, "Decode(Encode(%q))", s)
		assert.Equal(t, s, got)
	}
}

func TestDecodeLenient(t *testing.T) {
	// The reference decoder accepts a raw zero byte and overlong two-byte
	// sequences; so do we.
	got, err := Decode([]byte{'a', 0x00, 'b'})
	require.NoError(t, err)
	assert.Equal(t, "a\x00b", got)

	got, err = Decode([]byte{0xC1, 0xBF}) // overlong U+007F
	require.NoError(t, err)
	assert.Equal(t, "\x7f", got)
}

func TestDecodeInvalid(t *testing.T) {
	cases := map[string][]byte{
		"truncated 2-byte":    {0xC3},
		"truncated 3-byte":    {0xE2, 0x9D},
		"bad continuation":    {0xE2, 0x41, 0xA4},
		"4-byte sequence":     {0xF0, 0x9F, 0x98, 0x80},
		"lone high surrogate": {0xED, 0xA0, 0xBD},
		"lone low surrogate":  {0xED, 0xB8, 0x80, 'x', 'y', 'z'},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(raw)
			require.Error(t, err)
			var encErr *InvalidEncodingError
			assert.True(t, errors.As(err, &encErr), "want *InvalidEncodingError, got %T", err)
		})
	}
}
