package nbt

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// HeaderKind identifies a vendor-specific fixed-size header preceding the
// root tag. The pocket edition of the game prepends these to some of its
// files; standard documents have none.
type HeaderKind uint8

const (
	HeaderNone HeaderKind = iota

	// HeaderBedrockLevel is the level.dat prefix: a 4-byte version and a
	// 4-byte payload length, both little-endian, with no magic number.
	HeaderBedrockLevel

	// HeaderEntities is the entities.dat prefix: the magic "ENT\x00"
	// followed by a 4-byte version and a 4-byte payload length.
	HeaderEntities
)

// String returns the header name.
func (k HeaderKind) String() string {
	switch k {
	case HeaderNone:
		return "none"
	case HeaderBedrockLevel:
		return "bedrock-level"
	case HeaderEntities:
		return "entities"
	default:
		return "unknown"
	}
}

func (k HeaderKind) size() int {
	switch k {
	case HeaderBedrockLevel:
		return 8
	case HeaderEntities:
		return 12
	default:
		return 0
	}
}

var entitiesMagic = []byte{'E', 'N', 'T', 0x00}

// HeaderSniffer inspects the first bytes of the uncompressed stream and
// reports which vendor header, if any, precedes the root tag. The prefix
// holds up to 12 bytes (less near EOF).
type HeaderSniffer func(prefix []byte) HeaderKind

// SniffVendorHeader is the default HeaderSniffer. The level.dat branch is
// heuristic — "first byte isn't TAG_Compound" — and can misfire on streams
// that are not documents at all; use WithHeaderSniffer or
// WithoutHeaderSniffing when the framing is known.
func SniffVendorHeader(prefix []byte) HeaderKind {
	if len(prefix) >= 4 && bytes.Equal(prefix[:4], entitiesMagic) {
		return HeaderEntities
	}
	if len(prefix) >= 1 && prefix[0] != byte(TypeCompound) {
		return HeaderBedrockLevel
	}
	return HeaderNone
}

// Document is a loaded tag tree plus the framing it arrived with. The
// document is the root Compound: children are read and written through it
// directly rather than through a separate container object.
type Document struct {
	root *Tag

	compression   Compression
	littleEndian  bool
	header        HeaderKind
	headerVersion uint32
}

// New creates an empty document with the given root name. New documents
// save gzip-compressed and big-endian by default.
func New(name string) *Document {
	root := NewCompound()
	root.name = name
	return &Document{root: root, compression: CompressionGZip}
}

// Load reads a complete document from r: it strips the compression
// framing (sniffed from the stream head unless pinned by WithCompression),
// strips any vendor header, checks the root kind byte, and decodes the
// root compound.
func Load(r io.Reader, opts ...Option) (*Document, error) {
	cfg := newConfig(opts)

	br := bufio.NewReader(r)
	comp := cfg.compression
	if comp == CompressionAuto {
		head, _ := br.Peek(2)
		comp = sniffCompression(head)
	}

	var src io.Reader = br
	switch comp {
	case CompressionGZip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("nbt: gzip framing: %w", err)
		}
		defer zr.Close()
		src = zr
	case CompressionZLib:
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("nbt: zlib framing: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	ubr := bufio.NewReader(src)
	header := HeaderNone
	var version uint32
	if cfg.sniffHeader && cfg.sniffer != nil {
		prefix, _ := ubr.Peek(12)
		header = cfg.sniffer(prefix)
		if n := header.size(); n > 0 {
			if len(prefix) < n {
				return nil, &UnexpectedEOFError{Offset: int64(len(prefix))}
			}
			// Both headers end in a little-endian version and payload
			// length; only the version survives a reload.
			version = binary.LittleEndian.Uint32(prefix[n-8 : n-4])
			if _, err := ubr.Discard(n); err != nil {
				return nil, &UnexpectedEOFError{Offset: 0}
			}
		}
	}

	rd := newReader(ubr, cfg)
	id, err := rd.u8()
	if err != nil {
		return nil, err
	}
	if id != byte(TypeCompound) {
		return nil, &NotCompoundError{Got: id}
	}
	name, err := rd.str()
	if err != nil {
		return nil, err
	}
	root, err := rd.payload(TypeCompound)
	if err != nil {
		return nil, err
	}
	root.name = name

	return &Document{
		root:          root,
		compression:   comp,
		littleEndian:  cfg.order == binary.LittleEndian,
		header:        header,
		headerVersion: version,
	}, nil
}

// LoadFile loads a document from the named file.
func LoadFile(path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, opts...)
}

// sniffCompression recognizes the gzip and zlib stream magics; anything
// else (a standard document starts 0x0A) is treated as uncompressed.
func sniffCompression(head []byte) Compression {
	if len(head) >= 2 && head[0] == 0x1F && head[1] == 0x8B {
		return CompressionGZip
	}
	if len(head) >= 1 && head[0] == 0x78 {
		return CompressionZLib
	}
	return CompressionNone
}

// Save writes the document to w. Framing defaults to what the document was
// loaded with: same compression, same endianness, and — when a vendor
// header was detected on load — an equivalent header re-sized to the fresh
// payload length, unless WithoutVendorHeader.
func (d *Document) Save(w io.Writer, opts ...Option) error {
	cfg := newConfig(opts)
	if !cfg.orderSet && d.littleEndian {
		cfg.order = binary.LittleEndian
	}
	comp := cfg.compression
	if comp == CompressionAuto {
		comp = d.compression
	}

	var payload bytes.Buffer
	wr := newWriter(&payload, cfg)
	if err := wr.named(d.root); err != nil {
		return err
	}

	var out io.Writer = w
	var zc io.Closer
	switch comp {
	case CompressionGZip:
		zw := gzip.NewWriter(w)
		out, zc = zw, zw
	case CompressionZLib:
		zw := zlib.NewWriter(w)
		out, zc = zw, zw
	}

	if d.header != HeaderNone && !cfg.dropHeader {
		var hdr [12]byte
		b := hdr[:0]
		if d.header == HeaderEntities {
			b = append(b, entitiesMagic...)
		}
		b = binary.LittleEndian.AppendUint32(b, d.headerVersion)
		b = binary.LittleEndian.AppendUint32(b, uint32(payload.Len()))
		if _, err := out.Write(b); err != nil {
			return err
		}
	}

	if _, err := out.Write(payload.Bytes()); err != nil {
		return err
	}
	if zc != nil {
		return zc.Close()
	}
	return nil
}

// SaveFile writes the document to the named file.
func (d *Document) SaveFile(path string, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Save(f, opts...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Root returns the root compound.
func (d *Document) Root() *Tag { return d.root }

// Name returns the root compound's name. It may be empty but is always
// present on the wire.
func (d *Document) Name() string { return d.root.name }

// SetName renames the root compound.
func (d *Document) SetName(name string) { d.root.name = name }

// Compression reports the framing the document was loaded with (or will
// save with, for new documents).
func (d *Document) Compression() Compression { return d.compression }

// Header reports the vendor header detected on load, if any.
func (d *Document) Header() HeaderKind { return d.header }

// HeaderVersion reports the version field of the detected vendor header.
func (d *Document) HeaderVersion() uint32 { return d.headerVersion }

// Get returns the root child with the given name, or nil.
func (d *Document) Get(name string) *Tag { return d.root.Get(name) }

// Set inserts a root child under name; see Tag.Set.
func (d *Document) Set(name string, child *Tag) error { return d.root.Set(name, child) }

// Delete removes a root child, reporting whether it was present.
func (d *Document) Delete(name string) bool { return d.root.Delete(name) }

// Keys returns the root entry names in insertion order.
func (d *Document) Keys() []string { return d.root.Keys() }

// Len returns the number of root entries.
func (d *Document) Len() int { return d.root.Len() }
