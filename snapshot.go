package kmergraph

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/kmergraph/bloom"
	"github.com/hupe1980/kmergraph/codec"
	"github.com/hupe1980/kmergraph/internal/conv"
	"github.com/hupe1980/kmergraph/internal/hash"
	"github.com/hupe1980/kmergraph/solid"
	"github.com/hupe1980/kmergraph/wideint"
)

// Snapshot layout (little endian):
//
//	[0:4]   magic "KMGS"
//	[4:6]   format version
//	[6:8]   codec name length
//	[8:12]  manifest length
//	[12:16] manifest CRC32-C
//	codec name, manifest, bloom filter (bloom.Filter.WriteTo)
const (
	snapshotMagic      = "KMGS"
	snapshotVersion    = 1
	snapshotHeaderSize = 16

	maxManifestSize = 1 << 20
)

// manifest describes the graph stored in a snapshot.
type manifest struct {
	K            int          `json:"k"`
	Width        int          `json:"width"`
	AbundanceMin uint32       `json:"abundance_min"`
	Policy       solid.Policy `json:"invalid_symbol_policy"`
	Stats        solid.Stats  `json:"stats"`
	CreatedAt    time.Time    `json:"created_at"`
}

type snapshotHeader struct {
	codecName string
	manifest  manifest
}

func writeSnapshot[T wideint.Int[T]](w io.Writer, c codec.Codec, m manifest, f *bloom.Filter[T]) (int64, error) {
	body, err := c.Marshal(m)
	if err != nil {
		return 0, fmt.Errorf("kmergraph: encode manifest: %w", err)
	}
	name := c.Name()
	nameLen, err := conv.IntToUint16(len(name))
	if err != nil {
		return 0, fmt.Errorf("kmergraph: codec name: %w", err)
	}
	bodyLen, err := conv.IntToUint32(len(body))
	if err != nil {
		return 0, fmt.Errorf("kmergraph: manifest: %w", err)
	}

	hdr := make([]byte, snapshotHeaderSize, snapshotHeaderSize+len(name)+len(body))
	copy(hdr[0:4], snapshotMagic)
	binary.LittleEndian.PutUint16(hdr[4:6], snapshotVersion)
	binary.LittleEndian.PutUint16(hdr[6:8], nameLen)
	binary.LittleEndian.PutUint32(hdr[8:12], bodyLen)
	binary.LittleEndian.PutUint32(hdr[12:16], hash.CRC32C(body))
	hdr = append(hdr, name...)
	hdr = append(hdr, body...)

	n, err := w.Write(hdr)
	if err != nil {
		return int64(n), err
	}
	m2, err := f.WriteTo(w)
	return int64(n) + m2, err
}

// readSnapshotHeader reads everything up to the bloom filter.
func readSnapshotHeader(r io.Reader) (snapshotHeader, error) {
	var sh snapshotHeader

	buf := make([]byte, snapshotHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return sh, corrupted(err)
	}
	if string(buf[0:4]) != snapshotMagic {
		return sh, fmt.Errorf("%w: bad magic %q", ErrCorruptedSnapshot, buf[0:4])
	}
	if v := binary.LittleEndian.Uint16(buf[4:6]); v != snapshotVersion {
		return sh, fmt.Errorf("%w: unsupported version %d", ErrCorruptedSnapshot, v)
	}
	nameLen := int(binary.LittleEndian.Uint16(buf[6:8]))
	bodyLen := binary.LittleEndian.Uint32(buf[8:12])
	crc := binary.LittleEndian.Uint32(buf[12:16])
	if bodyLen > maxManifestSize {
		return sh, fmt.Errorf("%w: manifest of %d bytes", ErrCorruptedSnapshot, bodyLen)
	}

	rest := make([]byte, nameLen+int(bodyLen))
	if _, err := io.ReadFull(r, rest); err != nil {
		return sh, corrupted(err)
	}
	sh.codecName = string(rest[:nameLen])
	body := rest[nameLen:]
	if hash.CRC32C(body) != crc {
		return sh, fmt.Errorf("%w: manifest checksum mismatch", ErrCorruptedSnapshot)
	}

	c, ok := codec.ByName(sh.codecName)
	if !ok {
		return sh, fmt.Errorf("%w: unknown codec %q", ErrCorruptedSnapshot, sh.codecName)
	}
	if err := c.Unmarshal(body, &sh.manifest); err != nil {
		return sh, corrupted(err)
	}

	m := sh.manifest
	w, err := wideint.ForK(m.K)
	if err != nil || int(w) != m.Width {
		return sh, fmt.Errorf("%w: k=%d does not match width %d", ErrCorruptedSnapshot, m.K, m.Width)
	}
	return sh, nil
}

func corrupted(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %w", ErrCorruptedSnapshot, err)
}
