package bloom

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/kmergraph/internal/bitset"
	"github.com/hupe1980/kmergraph/internal/conv"
	"github.com/hupe1980/kmergraph/internal/hash"
	"github.com/hupe1980/kmergraph/wideint"
)

// HeaderSize is the size of the serialized filter header in bytes.
const HeaderSize = 48

const (
	magic   = "KBF1"
	version = 1
)

// Header describes a serialized filter.
//
// Layout (little-endian):
//
//	0  magic "KBF1"     4
//	4  version          1
//	5  kind             1
//	6  compression      1
//	7  reserved         1
//	8  width bits       2
//	10 reserved         2
//	12 hashes           4
//	16 numBits          8
//	24 count            8
//	32 payload length   8
//	40 payload CRC32-C  4
//	44 header CRC32-C   4 (over bytes 0..44)
type Header struct {
	Kind        Kind
	Compression CompressionType
	WidthBits   int
	Hashes      uint32
	NumBits     uint64
	Count       uint64
	PayloadLen  uint64
	PayloadCRC  uint32
}

// RawLen returns the size of the uncompressed bit array.
func (h Header) RawLen() uint64 {
	return bitset.WordsFor(h.NumBits) * 8
}

func (h Header) encode() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf, magic)
	buf[4] = version
	buf[5] = byte(h.Kind)
	buf[6] = byte(h.Compression)
	binary.LittleEndian.PutUint16(buf[8:], uint16(h.WidthBits))
	binary.LittleEndian.PutUint32(buf[12:], h.Hashes)
	binary.LittleEndian.PutUint64(buf[16:], h.NumBits)
	binary.LittleEndian.PutUint64(buf[24:], h.Count)
	binary.LittleEndian.PutUint64(buf[32:], h.PayloadLen)
	binary.LittleEndian.PutUint32(buf[40:], h.PayloadCRC)
	binary.LittleEndian.PutUint32(buf[44:], hash.CRC32C(buf[:44]))
	return buf
}

// DecodeHeader parses and validates a serialized filter header.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header too small", ErrCorrupted)
	}
	if string(buf[:4]) != magic {
		return Header{}, fmt.Errorf("%w: bad magic", ErrCorrupted)
	}
	if buf[4] != version {
		return Header{}, fmt.Errorf("%w: unsupported version %d", ErrCorrupted, buf[4])
	}
	if binary.LittleEndian.Uint32(buf[44:]) != hash.CRC32C(buf[:44]) {
		return Header{}, fmt.Errorf("%w: header checksum mismatch", ErrCorrupted)
	}

	h := Header{
		Kind:        Kind(buf[5]),
		Compression: CompressionType(buf[6]),
		WidthBits:   int(binary.LittleEndian.Uint16(buf[8:])),
		Hashes:      binary.LittleEndian.Uint32(buf[12:]),
		NumBits:     binary.LittleEndian.Uint64(buf[16:]),
		Count:       binary.LittleEndian.Uint64(buf[24:]),
		PayloadLen:  binary.LittleEndian.Uint64(buf[32:]),
		PayloadCRC:  binary.LittleEndian.Uint32(buf[40:]),
	}
	if h.NumBits == 0 || h.Hashes == 0 {
		return Header{}, fmt.Errorf("%w: empty filter geometry", ErrCorrupted)
	}
	if h.NumBits > MaxBits {
		return Header{}, fmt.Errorf("%w: %d bits exceeds %d", ErrCorrupted, h.NumBits, MaxBits)
	}
	if h.Kind == KindBlocked && h.NumBits%blockBits != 0 {
		return Header{}, fmt.Errorf("%w: blocked filter of %d bits", ErrCorrupted, h.NumBits)
	}
	return h, nil
}

// WriteTo writes the header followed by the (optionally compressed) bit array.
// The filter must not be modified concurrently.
func (f *Filter[T]) WriteTo(w io.Writer) (int64, error) {
	raw := f.bits.AppendBytes(make([]byte, 0, f.bits.SizeBytes()))

	payload, used, err := compress(raw, f.opts.Compression)
	if err != nil {
		return 0, err
	}

	var zero T
	hdr := Header{
		Kind:        f.kind,
		Compression: used,
		WidthBits:   zero.Bits(),
		Hashes:      f.hashes,
		NumBits:     f.numBits,
		Count:       f.Count(),
		PayloadLen:  uint64(len(payload)),
		PayloadCRC:  hash.CRC32C(payload),
	}

	n, err := w.Write(hdr.encode())
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(payload)
	return int64(n + m), err
}

// Read reads a filter written by WriteTo. The filter must have been built for
// the same integer width. The kind and compression are taken from the header;
// options may override the compression used by later WriteTo calls.
func Read[T wideint.Int[T]](r io.Reader, optFns ...func(o *Options)) (*Filter[T], error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	hdr, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}

	var zero T
	if hdr.WidthBits != zero.Bits() {
		return nil, fmt.Errorf("%w: filter is %d-bit, want %d-bit", ErrWidthMismatch, hdr.WidthBits, zero.Bits())
	}

	rawLen := hdr.RawLen()
	if hdr.PayloadLen > 2*rawLen+1024 {
		return nil, fmt.Errorf("%w: payload of %d bytes for %d raw bytes", ErrCorrupted, hdr.PayloadLen, rawLen)
	}

	payload := make([]byte, hdr.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if hash.CRC32C(payload) != hdr.PayloadCRC {
		return nil, fmt.Errorf("%w: payload checksum mismatch", ErrCorrupted)
	}

	n, err := conv.Uint64ToInt(rawLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	raw, err := decompress(payload, hdr.Compression, n)
	if err != nil {
		return nil, err
	}

	fns := make([]func(o *Options), 0, len(optFns)+2)
	fns = append(fns, func(o *Options) { o.Compression = hdr.Compression })
	fns = append(fns, optFns...)
	fns = append(fns, func(o *Options) { o.Kind = hdr.Kind })
	f, err := New[T](hdr.NumBits, hdr.Hashes, fns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if f.numBits != hdr.NumBits {
		return nil, fmt.Errorf("%w: bit count %d", ErrCorrupted, hdr.NumBits)
	}
	if err := f.bits.LoadBytes(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	f.count.Store(hdr.Count)
	return f, nil
}
