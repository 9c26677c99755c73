package region

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cavern-io/nbt/nbt"
)

// chunkDoc builds a small standalone document identifying its slot.
func chunkDoc(t *testing.T, x, z int) *nbt.Document {
	t.Helper()
	doc := nbt.New("")
	require.NoError(t, doc.Set("xPos", nbt.Int(int32(x))))
	require.NoError(t, doc.Set("zPos", nbt.Int(int32(z))))
	return doc
}

func compressDoc(t *testing.T, doc *nbt.Document, comp nbt.Compression) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, doc.Save(&buf, nbt.WithCompression(comp)))
	return buf.Bytes()
}

func putLocation(file []byte, x, z, sector, sectors int) {
	i := z*Width + x
	binary.BigEndian.PutUint32(file[i*4:], uint32(sector)<<8|uint32(sectors))
}

func putTimestamp(file []byte, x, z int, ts uint32) {
	i := z*Width + x
	binary.BigEndian.PutUint32(file[headerSize/2+i*4:], ts)
}

func putBlob(file []byte, sector int, scheme byte, data []byte) {
	off := sector * SectorSize
	binary.BigEndian.PutUint32(file[off:], uint32(len(data)+1))
	file[off+4] = scheme
	copy(file[off+5:], data)
}

// testRegion lays out four occupied slots:
//
//	(0,0) sector 2, zlib
//	(1,0) sector 3, gzip
//	(2,0) sector 4, unsupported scheme
//	(3,0) sector 5, erased scheme
func testRegion(t *testing.T) []byte {
	t.Helper()
	file := make([]byte, 6*SectorSize)

	putLocation(file, 0, 0, 2, 1)
	putTimestamp(file, 0, 0, 1700000000)
	putBlob(file, 2, SchemeZLib, compressDoc(t, chunkDoc(t, 0, 0), nbt.CompressionZLib))

	putLocation(file, 1, 0, 3, 1)
	putTimestamp(file, 1, 0, 1700000001)
	putBlob(file, 3, SchemeGZip, compressDoc(t, chunkDoc(t, 1, 0), nbt.CompressionGZip))

	putLocation(file, 2, 0, 4, 1)
	putTimestamp(file, 2, 0, 1700000002)
	putBlob(file, 4, 9, []byte{0xDE, 0xAD})

	putLocation(file, 3, 0, 5, 1)
	putBlob(file, 5, SchemeErased, []byte{0x00, 0x00})

	return file
}

func TestOpenHeader(t *testing.T) {
	rg, err := Open(bytes.NewReader(testRegion(t)))
	require.NoError(t, err)

	want := []Coord{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	assert.Equal(t, want, rg.Coords())

	assert.True(t, rg.Has(0, 0))
	assert.False(t, rg.Has(5, 5))
	assert.False(t, rg.Has(-1, 0))
	assert.False(t, rg.Has(Width, 0))

	assert.Equal(t, uint32(1700000001), rg.Timestamp(1, 0))
	assert.Equal(t, uint32(0), rg.Timestamp(5, 5))
}

func TestChunkDecode(t *testing.T) {
	rg, err := Open(bytes.NewReader(testRegion(t)))
	require.NoError(t, err)

	for _, c := range []Coord{{0, 0}, {1, 0}} {
		ch, err := rg.Chunk(c.X, c.Z)
		require.NoError(t, err)
		require.NotNil(t, ch)
		assert.Equal(t, c, ch.Coord)

		x, err := ch.Doc.Get("xPos").AsInt()
		require.NoError(t, err)
		assert.Equal(t, int32(c.X), x)
	}

	ch, err := rg.Chunk(0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ch.Time().Unix())
}

func TestChunkAbsent(t *testing.T) {
	rg, err := Open(bytes.NewReader(testRegion(t)))
	require.NoError(t, err)

	// Empty slot.
	ch, err := rg.Chunk(10, 10)
	require.NoError(t, err)
	assert.Nil(t, ch)

	// Occupied slot whose blob carries the erased scheme.
	ch, err = rg.Chunk(3, 0)
	require.NoError(t, err)
	assert.Nil(t, ch)
}

func TestChunkOutOfRange(t *testing.T) {
	rg, err := Open(bytes.NewReader(testRegion(t)))
	require.NoError(t, err)

	_, err = rg.Chunk(Width, 0)
	require.Error(t, err)
	_, err = rg.Chunk(0, -1)
	require.Error(t, err)
}

func TestChunkUnsupportedScheme(t *testing.T) {
	rg, err := Open(bytes.NewReader(testRegion(t)))
	require.NoError(t, err)

	_, err = rg.Chunk(2, 0)
	require.Error(t, err)
	var unsupported *UnsupportedCompressionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, byte(9), unsupported.Scheme)
}

func TestChunkLengthExceedsAllocation(t *testing.T) {
	file := testRegion(t)
	binary.BigEndian.PutUint32(file[2*SectorSize:], 9000)

	rg, err := Open(bytes.NewReader(file))
	require.NoError(t, err)

	_, err = rg.Chunk(0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestChunksIsolatesFailures(t *testing.T) {
	rg, err := Open(bytes.NewReader(testRegion(t)))
	require.NoError(t, err)

	chunks := rg.Chunks()
	require.Len(t, chunks, 3) // erased slot is absent, not failed

	assert.Equal(t, Coord{0, 0}, chunks[0].Coord)
	assert.NoError(t, chunks[0].Err)
	assert.Equal(t, Coord{1, 0}, chunks[1].Coord)
	assert.NoError(t, chunks[1].Err)

	assert.Equal(t, Coord{2, 0}, chunks[2].Coord)
	require.Error(t, chunks[2].Err)
	var unsupported *UnsupportedCompressionError
	assert.ErrorAs(t, chunks[2].Err, &unsupported)
	assert.Nil(t, chunks[2].Doc)
}

func TestChunksParallelMatchesSequential(t *testing.T) {
	rg, err := Open(bytes.NewReader(testRegion(t)))
	require.NoError(t, err)

	seq := rg.Chunks()
	par := rg.ChunksParallel(4)
	require.Len(t, par, len(seq))

	for i := range seq {
		assert.Equal(t, seq[i].Coord, par[i].Coord)
		assert.Equal(t, seq[i].Timestamp, par[i].Timestamp)
		assert.Equal(t, seq[i].Err == nil, par[i].Err == nil)
		if seq[i].Doc != nil {
			require.NotNil(t, par[i].Doc)
			assert.True(t, seq[i].Doc.Root().Equal(par[i].Doc.Root()))
		}
	}
}

func TestScan(t *testing.T) {
	file := testRegion(t)
	coords, err := Scan(bytes.NewReader(file))
	require.NoError(t, err)

	rg, err := Open(bytes.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, rg.Coords(), coords)
}

func TestScanMatchesFullLoad(t *testing.T) {
	// On a file with no erased or corrupt slots, the header-only scan and
	// the full decode agree on which chunks exist.
	file := make([]byte, 5*SectorSize)
	coords := []Coord{{4, 7}, {0, 12}, {31, 31}}
	for i, c := range coords {
		sector := 2 + i
		putLocation(file, c.X, c.Z, sector, 1)
		putBlob(file, sector, SchemeZLib, compressDoc(t, chunkDoc(t, c.X, c.Z), nbt.CompressionZLib))
	}

	scanned, err := Scan(bytes.NewReader(file))
	require.NoError(t, err)

	rg, err := Open(bytes.NewReader(file))
	require.NoError(t, err)
	var loaded []Coord
	for _, ch := range rg.Chunks() {
		require.NoError(t, ch.Err)
		loaded = append(loaded, ch.Coord)
	}
	assert.Equal(t, scanned, loaded)
}

func TestScanTruncated(t *testing.T) {
	_, err := Scan(bytes.NewReader(make([]byte, 100)))
	require.Error(t, err)
}

func TestOpenFileAndScanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.mca")
	require.NoError(t, os.WriteFile(path, testRegion(t), 0o644))

	coords, err := ScanFile(path)
	require.NoError(t, err)
	assert.Len(t, coords, 4)

	rg, err := OpenFile(path)
	require.NoError(t, err)
	ch, err := rg.Chunk(0, 0)
	require.NoError(t, err)
	require.NotNil(t, ch)
	require.NoError(t, rg.Close())
}

func TestOpenMmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.mca")
	require.NoError(t, os.WriteFile(path, testRegion(t), 0o644))

	rg, err := OpenMmap(path)
	require.NoError(t, err)

	ch, err := rg.Chunk(1, 0)
	require.NoError(t, err)
	require.NotNil(t, ch)
	z, err := ch.Doc.Get("zPos").AsInt()
	require.NoError(t, err)
	assert.Equal(t, int32(0), z)

	require.NoError(t, rg.Close())
}
