// Package region reads the container format that packs up to 1024
// independently compressed tag-tree documents ("chunks") into
// sector-aligned slots of one file.
//
// A region file starts with a fixed 8 KiB header: 1024 big-endian packed
// locations followed by 1024 big-endian timestamps, index i addressing
// chunk (i mod 32, i div 32). Each occupied slot points at a
// length-prefixed compressed blob whose payload is a standalone document.
//
// Scan is the fast path: it reads only the 4 KiB location table and
// reports which chunk coordinates are present, without touching any chunk
// payload. Load/Chunks materialize documents, isolating failures per
// chunk so one corrupt slot does not hide the rest.
package region

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"golang.org/x/sync/errgroup"

	"github.com/cavern-io/nbt/nbt"
)

const (
	// SectorSize is the fixed allocation unit for chunk blobs.
	SectorSize = 4096

	// Width is the region edge length in chunks.
	Width = 32

	// ChunkCount is the number of slots in one region.
	ChunkCount = Width * Width

	headerSize = 2 * 4 * ChunkCount // locations + timestamps
)

// Compression schemes of a chunk blob.
const (
	SchemeErased byte = 0 // unallocated or improperly erased: treat as absent
	SchemeGZip   byte = 1 // supported, never seen in practice
	SchemeZLib   byte = 2 // the scheme actually used in practice
)

// UnsupportedCompressionError is returned for a chunk whose scheme byte is
// outside the known set.
type UnsupportedCompressionError struct {
	Scheme byte
}

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("region: unsupported chunk compression scheme %d", e.Scheme)
}

// Coord is a chunk coordinate local to its region, both axes in [0, 32).
type Coord struct {
	X, Z int
}

func (c Coord) String() string { return fmt.Sprintf("(%d, %d)", c.X, c.Z) }

func (c Coord) index() int { return c.Z*Width + c.X }

func coordAt(i int) Coord { return Coord{X: i % Width, Z: i / Width} }

// Chunk is one decoded slot. Doc is nil for absent chunks; Err carries a
// per-chunk decode failure without aborting the slots around it.
type Chunk struct {
	Coord     Coord
	Timestamp uint32
	Doc       *nbt.Document
	Err       error
}

// Time returns the slot's modification timestamp.
func (c *Chunk) Time() time.Time { return time.Unix(int64(c.Timestamp), 0) }

// Region is an open region file: the parsed header tables plus the byte
// source chunk payloads are read from on demand.
type Region struct {
	locations  [ChunkCount]uint32
	timestamps [ChunkCount]uint32
	src        io.ReaderAt
	closer     io.Closer
}

// Open parses the region header from ra. Chunk payloads are read lazily.
func Open(ra io.ReaderAt) (*Region, error) {
	var hdr [headerSize]byte
	if _, err := ra.ReadAt(hdr[:], 0); err != nil {
		return nil, fmt.Errorf("region: header: %w", err)
	}
	rg := &Region{src: ra}
	for i := 0; i < ChunkCount; i++ {
		rg.locations[i] = binary.BigEndian.Uint32(hdr[i*4:])
		rg.timestamps[i] = binary.BigEndian.Uint32(hdr[headerSize/2+i*4:])
	}
	return rg, nil
}

// OpenFile opens the named region file. Close releases it.
func OpenFile(path string) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rg, err := Open(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	rg.closer = f
	return rg, nil
}

// Close releases the underlying file, if the Region owns one.
func (rg *Region) Close() error {
	if rg.closer == nil {
		return nil
	}
	return rg.closer.Close()
}

// Scan reads only the location table from r and returns the coordinates of
// every occupied slot. It never touches chunk payloads, so it is the cheap
// way to enumerate a directory of region files.
func Scan(r io.Reader) ([]Coord, error) {
	var table [headerSize / 2]byte
	if _, err := io.ReadFull(r, table[:]); err != nil {
		return nil, fmt.Errorf("region: location table: %w", err)
	}
	var coords []Coord
	for i := 0; i < ChunkCount; i++ {
		if binary.BigEndian.Uint32(table[i*4:]) != 0 {
			coords = append(coords, coordAt(i))
		}
	}
	return coords, nil
}

// ScanFile runs Scan on the named file.
func ScanFile(path string) ([]Coord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Scan(f)
}

// Coords returns the coordinates of every occupied slot.
func (rg *Region) Coords() []Coord {
	var coords []Coord
	for i, loc := range rg.locations {
		if loc != 0 {
			coords = append(coords, coordAt(i))
		}
	}
	return coords
}

// Has reports whether the slot at (x, z) is occupied.
func (rg *Region) Has(x, z int) bool {
	if x < 0 || x >= Width || z < 0 || z >= Width {
		return false
	}
	return rg.locations[Coord{x, z}.index()] != 0
}

// Timestamp returns the raw timestamp of the slot at (x, z).
func (rg *Region) Timestamp(x, z int) uint32 {
	if x < 0 || x >= Width || z < 0 || z >= Width {
		return 0
	}
	return rg.timestamps[Coord{x, z}.index()]
}

// Chunk decodes the slot at (x, z). Absent chunks (empty slot, or a blob
// with the erased scheme) return (nil, nil).
func (rg *Region) Chunk(x, z int) (*Chunk, error) {
	if x < 0 || x >= Width || z < 0 || z >= Width {
		return nil, fmt.Errorf("region: chunk coordinate %d,%d out of range", x, z)
	}
	return rg.chunkAt(Coord{x, z}.index())
}

func (rg *Region) chunkAt(i int) (*Chunk, error) {
	loc := rg.locations[i]
	if loc == 0 {
		return nil, nil
	}
	coord := coordAt(i)

	offset := int64(loc>>8) * SectorSize
	alloc := int64(loc&0xFF) * SectorSize

	var head [5]byte
	if _, err := rg.src.ReadAt(head[:], offset); err != nil {
		return nil, fmt.Errorf("region: chunk %s header: %w", coord, err)
	}
	length := binary.BigEndian.Uint32(head[:4])
	scheme := head[4]

	if scheme == SchemeErased || length == 0 {
		return nil, nil
	}
	if int64(length) > alloc {
		return nil, fmt.Errorf("region: chunk %s blob length %d exceeds its %d allocated bytes", coord, length, alloc)
	}

	blob := make([]byte, length-1)
	if _, err := rg.src.ReadAt(blob, offset+5); err != nil {
		return nil, fmt.Errorf("region: chunk %s blob: %w", coord, err)
	}

	doc, err := decodeChunk(blob, scheme)
	if err != nil {
		return nil, fmt.Errorf("region: chunk %s: %w", coord, err)
	}
	return &Chunk{Coord: coord, Timestamp: rg.timestamps[i], Doc: doc}, nil
}

// decodeChunk decompresses one blob and decodes it as a standalone
// document. Decompression already happened, so the document codec runs
// with uncompressed framing; header sniffing is off because chunk payloads
// are always standard big-endian documents.
func decodeChunk(blob []byte, scheme byte) (*nbt.Document, error) {
	var src io.Reader = bytes.NewReader(blob)
	switch scheme {
	case SchemeGZip:
		zr, err := gzip.NewReader(src)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		src = zr
	case SchemeZLib:
		zr, err := zlib.NewReader(src)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		src = zr
	default:
		return nil, &UnsupportedCompressionError{Scheme: scheme}
	}
	return nbt.Load(src,
		nbt.WithCompression(nbt.CompressionNone),
		nbt.WithoutHeaderSniffing(),
	)
}

// Chunks decodes every occupied slot sequentially, by slot index. A failed
// slot is reported in its Chunk.Err; the others still decode.
func (rg *Region) Chunks() []*Chunk {
	var out []*Chunk
	for i, loc := range rg.locations {
		if loc == 0 {
			continue
		}
		c, err := rg.chunkAt(i)
		if err != nil {
			out = append(out, &Chunk{Coord: coordAt(i), Timestamp: rg.timestamps[i], Err: err})
			continue
		}
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// ChunksParallel decodes occupied slots on up to workers goroutines.
// Every slot's byte range is read through ReadAt, so no cursor is shared;
// results come back ordered by slot index, not completion order. Per-slot
// failures are isolated in Chunk.Err, exactly as in Chunks.
func (rg *Region) ChunksParallel(workers int) []*Chunk {
	if workers < 1 {
		workers = 1
	}
	slots := make([]*Chunk, ChunkCount)

	var g errgroup.Group
	g.SetLimit(workers)
	for i, loc := range rg.locations {
		if loc == 0 {
			continue
		}
		i := i
		g.Go(func() error {
			c, err := rg.chunkAt(i)
			if err != nil {
				c = &Chunk{Coord: coordAt(i), Timestamp: rg.timestamps[i], Err: err}
			}
			slots[i] = c
			return nil
		})
	}
	g.Wait()

	var out []*Chunk
	for _, c := range slots {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
