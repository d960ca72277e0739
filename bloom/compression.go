package bloom

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm applied to the bit array.
type CompressionType uint8

const (
	// CompressionNone stores the bit array as is.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZstd uses Zstandard (better ratio on sparse filters).
	CompressionZstd CompressionType = 2
)

func (c CompressionType) String() string {
	name, err := compressionName(c)
	if err != nil {
		return fmt.Sprintf("CompressionType(%d)", uint8(c))
	}
	return name
}

// ParseCompression returns the CompressionType named s ("none", "lz4", "zstd").
func ParseCompression(s string) (CompressionType, error) {
	for _, c := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZstd} {
		if name, _ := compressionName(c); name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedCompression, s)
}

func compressionName(c CompressionType) (string, error) {
	switch c {
	case CompressionNone:
		return "none", nil
	case CompressionLZ4:
		return "lz4", nil
	case CompressionZstd:
		return "zstd", nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnsupportedCompression, uint8(c))
	}
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compress returns the compressed form of data and the compression actually
// used. Incompressible data is stored as CompressionNone.
func compress(data []byte, c CompressionType) ([]byte, CompressionType, error) {
	if c == CompressionNone || len(data) == 0 {
		return data, CompressionNone, nil
	}

	var out []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, 0, err
		}
		out = buf[:n]
	case CompressionZstd:
		enc := getZstdEncoder()
		defer putZstdEncoder(enc)
		out = enc.EncodeAll(data, nil)
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedCompression, uint8(c))
	}

	if len(out) == 0 || len(out) >= len(data) {
		return data, CompressionNone, nil
	}
	return out, c, nil
}

// decompress expands payload into exactly rawLen bytes.
func decompress(payload []byte, c CompressionType, rawLen int) ([]byte, error) {
	switch c {
	case CompressionNone:
		if len(payload) != rawLen {
			return nil, fmt.Errorf("%w: payload is %d bytes, want %d", ErrCorrupted, len(payload), rawLen)
		}
		return payload, nil
	case CompressionLZ4:
		out := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		if n != rawLen {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupted)
		}
		return out, nil
	case CompressionZstd:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		out, err := dec.DecodeAll(payload, make([]byte, 0, rawLen))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
		if len(out) != rawLen {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupted)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, uint8(c))
	}
}
