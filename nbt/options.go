package nbt

import (
	"encoding/binary"
)

// Compression selects the whole-stream compression framing of a document.
type Compression uint8

const (
	// CompressionAuto sniffs the framing from the stream head on load and
	// reuses the document's loaded framing on save.
	CompressionAuto Compression = iota
	CompressionNone
	CompressionGZip
	CompressionZLib
)

// String returns the framing name.
func (c Compression) String() string {
	switch c {
	case CompressionAuto:
		return "auto"
	case CompressionNone:
		return "none"
	case CompressionGZip:
		return "gzip"
	case CompressionZLib:
		return "zlib"
	default:
		return "unknown"
	}
}

// DefaultMaxDepth bounds recursion on adversarial input. The format itself
// imposes no limit; callers with deeper legitimate trees raise it with
// WithMaxDepth.
const DefaultMaxDepth = 512

type config struct {
	order       binary.ByteOrder
	orderSet    bool
	maxDepth    int
	compression Compression
	sniffer     HeaderSniffer
	sniffHeader bool
	dropHeader  bool
}

func newConfig(opts []Option) *config {
	cfg := &config{
		order:       binary.BigEndian,
		maxDepth:    DefaultMaxDepth,
		compression: CompressionAuto,
		sniffer:     SniffVendorHeader,
		sniffHeader: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures Read, Write, Load, and Save.
type Option func(*config)

// WithLittleEndian selects the little-endian wire variant.
func WithLittleEndian() Option {
	return func(cfg *config) { cfg.order, cfg.orderSet = binary.LittleEndian, true }
}

// WithBigEndian selects the standard big-endian wire format (the default).
func WithBigEndian() Option {
	return func(cfg *config) { cfg.order, cfg.orderSet = binary.BigEndian, true }
}

// WithMaxDepth sets the nesting depth limit (default DefaultMaxDepth).
func WithMaxDepth(n int) Option {
	return func(cfg *config) { cfg.maxDepth = n }
}

// WithCompression fixes the compression framing instead of sniffing it.
func WithCompression(c Compression) Option {
	return func(cfg *config) { cfg.compression = c }
}

// WithHeaderSniffer replaces the vendor-header detector used by Load.
// Header detection is heuristic; a standard document whose root name
// collides with header bytes can misfire, and callers that know their
// framing should pin it here or disable sniffing entirely.
func WithHeaderSniffer(fn HeaderSniffer) Option {
	return func(cfg *config) { cfg.sniffer = fn }
}

// WithoutHeaderSniffing disables vendor-header detection on Load; the
// stream is treated as standard framing.
func WithoutHeaderSniffing() Option {
	return func(cfg *config) { cfg.sniffHeader = false }
}

// WithoutVendorHeader makes Save omit the vendor header even when the
// document was loaded with one.
func WithoutVendorHeader() Option {
	return func(cfg *config) { cfg.dropHeader = true }
}
