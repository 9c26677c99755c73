package region

import (
	"bytes"
	"os"

	"github.com/edsrzf/mmap-go"
)

// OpenMmap memory-maps the named region file and parses its header.
// Chunk reads then hit the mapping instead of issuing file reads, which
// pays off when many chunks are decoded from one region. Close unmaps the
// file.
func OpenMmap(path string) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	rg, err := Open(bytes.NewReader(m))
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, err
	}
	rg.closer = &mapped{m: m, f: f}
	return rg, nil
}

type mapped struct {
	m mmap.MMap
	f *os.File
}

func (mc *mapped) Close() error {
	err := mc.m.Unmap()
	if cerr := mc.f.Close(); err == nil {
		err = cerr
	}
	return err
}
