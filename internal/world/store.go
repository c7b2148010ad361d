package world

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"blockrender/internal/registry"

	"github.com/klauspost/compress/gzip"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// FormatVersion is the only voxel file version understood.
const FormatVersion = 1

// maxPrealloc bounds the palette capacity reserved from the header; larger
// palettes grow as entries are actually decoded.
const maxPrealloc = 4096

var (
	// ErrBadVersion is returned for voxel files of an unknown version.
	ErrBadVersion = errors.New("unsupported voxel file version")
	// ErrCorrupt is returned when the palette or payload is malformed.
	ErrCorrupt = errors.New("corrupt voxel file")
)

// blockTag is the NBT record of one palette entry.
type blockTag struct {
	Name       string            `nbt:"Name"`
	Properties map[string]string `nbt:"Properties,omitempty"`
}

// Load reads the palette from a gzip-compressed voxel file and resolves
// every entry against reg.
func Load(path string, reg *registry.Registry) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open voxel file: %w", err)
	}
	defer f.Close()

	p, err := Read(f, reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Read decodes a voxel stream. Layout after decompression (big endian):
//
//	int32 version
//	int32 palette size N
//	N NBT compounds {Name, Properties}
//	int32 octree length, followed by that many bytes
//
// The octree is not needed to render single blocks and is skipped.
func Read(r io.Reader, reg *registry.Registry) (*Palette, error) {
	zr, err := gzip.NewReader(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	defer zr.Close()
	br := bufio.NewReader(zr)

	var version, size int32
	if err := binary.Read(br, binary.BigEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: reading version: %w", ErrCorrupt, err)
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, version)
	}
	if err := binary.Read(br, binary.BigEndian, &size); err != nil {
		return nil, fmt.Errorf("%w: reading palette size: %w", ErrCorrupt, err)
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: negative palette size %d", ErrCorrupt, size)
	}

	dec := nbt.NewDecoderWithEncoding(br, nbt.BigEndian)
	blocks := make([]*Block, 0, min(size, maxPrealloc))
	for i := int32(0); i < size; i++ {
		var tag blockTag
		if err := dec.Decode(&tag); err != nil {
			return nil, fmt.Errorf("%w: palette entry %d: %w", ErrCorrupt, i, err)
		}
		if tag.Name == "" {
			return nil, fmt.Errorf("%w: palette entry %d has no name", ErrCorrupt, i)
		}
		b := &Block{Name: tag.Name, Properties: tag.Properties}
		if reg != nil {
			b.Def = reg.Resolve(tag.Name, tag.Properties)
		}
		blocks = append(blocks, b)
	}

	var octree int32
	if err := binary.Read(br, binary.BigEndian, &octree); err != nil {
		return nil, fmt.Errorf("%w: reading octree length: %w", ErrCorrupt, err)
	}
	if octree < 0 {
		return nil, fmt.Errorf("%w: negative octree length %d", ErrCorrupt, octree)
	}
	if _, err := io.CopyN(io.Discard, br, int64(octree)); err != nil {
		return nil, fmt.Errorf("%w: truncated octree: %w", ErrCorrupt, err)
	}

	return NewPalette(blocks), nil
}

// Save writes blocks as a voxel stream Read accepts, with an empty octree.
func Save(w io.Writer, blocks []*Block) error {
	zw := gzip.NewWriter(w)
	bw := bufio.NewWriter(zw)

	if err := binary.Write(bw, binary.BigEndian, int32(FormatVersion)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.BigEndian, int32(len(blocks))); err != nil {
		return err
	}
	enc := nbt.NewEncoderWithEncoding(bw, nbt.BigEndian)
	for _, b := range blocks {
		if err := enc.Encode(blockTag{Name: b.Name, Properties: b.Properties}); err != nil {
			return fmt.Errorf("encoding %s: %w", b.Name, err)
		}
	}
	if err := binary.Write(bw, binary.BigEndian, int32(0)); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return zw.Close()
}
