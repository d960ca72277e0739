package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Format is a text layout for sequences.
type Format uint8

const (
	// FormatAuto detects the format from the first non-blank byte.
	FormatAuto Format = iota
	// FormatLines is one sequence per line.
	FormatLines
	// FormatFASTA is '>'-headed records with sequences spanning several lines.
	FormatFASTA
	// FormatFASTQ is four-line '@'-headed records with a quality line.
	FormatFASTQ
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatLines:
		return "lines"
	case FormatFASTA:
		return "fasta"
	case FormatFASTQ:
		return "fastq"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// ErrMalformed is returned for records that do not follow their format.
var ErrMalformed = errors.New("source: malformed record")

const readBufferSize = 256 * 1024

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// decompress wraps r in a gzip or zstd reader when its first bytes match.
// The returned close function releases decoder resources.
func decompress(r io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReaderSize(r, readBufferSize)
	head, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { _ = zr.Close() }, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	default:
		return br, func() {}, nil
	}
}

// Parse reads sequences from r in the given format and calls yield for each.
// The slice passed to yield is reused for the next record. Compressed input
// is detected automatically. Parse stops when yield returns false.
func Parse(ctx context.Context, r io.Reader, format Format, yield func(seq []byte) bool) error {
	dr, closeFn, err := decompress(r)
	if err != nil {
		return err
	}
	defer closeFn()

	p := &parser{r: bufio.NewReaderSize(dr, readBufferSize), ctx: ctx}
	if format == FormatAuto {
		if format, err = p.detect(); err != nil {
			return err
		}
	}

	switch format {
	case FormatLines:
		return p.lines(yield)
	case FormatFASTA:
		return p.fasta(yield)
	case FormatFASTQ:
		return p.fastq(yield)
	default:
		return fmt.Errorf("source: unknown format %v", format)
	}
}

type parser struct {
	r    *bufio.Reader
	ctx  context.Context
	line []byte
	seq  []byte
	n    int
}

func (p *parser) detect() (Format, error) {
	for {
		b, err := p.r.ReadByte()
		if errors.Is(err, io.EOF) {
			return FormatLines, nil
		}
		if err != nil {
			return FormatAuto, err
		}
		if isSpace(b) {
			continue
		}
		if err := p.r.UnreadByte(); err != nil {
			return FormatAuto, err
		}
		switch b {
		case '>':
			return FormatFASTA, nil
		case '@':
			return FormatFASTQ, nil
		default:
			return FormatLines, nil
		}
	}
}

// next returns the next line without its terminator. The slice is reused.
func (p *parser) next() ([]byte, error) {
	p.n++
	if p.n%1024 == 0 {
		if err := p.ctx.Err(); err != nil {
			return nil, err
		}
	}

	p.line = p.line[:0]
	for {
		chunk, err := p.r.ReadSlice('\n')
		p.line = append(p.line, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(p.line) > 0 {
				return trimEOL(p.line), nil
			}
			return nil, err
		}
		return trimEOL(p.line), nil
	}
}

func (p *parser) lines(yield func([]byte) bool) error {
	for {
		line, err := p.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if !yield(line) {
			return nil
		}
	}
}

func (p *parser) fasta(yield func([]byte) bool) error {
	inRecord := false
	for {
		line, err := p.next()
		if errors.Is(err, io.EOF) {
			if inRecord {
				yield(p.seq)
			}
			return nil
		}
		if err != nil {
			return err
		}

		if len(line) > 0 && line[0] == '>' {
			if inRecord && !yield(p.seq) {
				return nil
			}
			inRecord = true
			p.seq = p.seq[:0]
			continue
		}
		if len(line) > 0 && line[0] == ';' {
			continue
		}
		if !inRecord {
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			return fmt.Errorf("%w: sequence data before first FASTA header (line %d)", ErrMalformed, p.n)
		}
		p.seq = append(p.seq, bytes.TrimSpace(line)...)
	}
}

func (p *parser) fastq(yield func([]byte) bool) error {
	for {
		header, err := p.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(bytes.TrimSpace(header)) == 0 {
			continue
		}
		if header[0] != '@' {
			return fmt.Errorf("%w: expected '@' header (line %d)", ErrMalformed, p.n)
		}

		seq, err := p.next()
		if err != nil {
			return fmt.Errorf("%w: truncated FASTQ record (line %d)", ErrMalformed, p.n)
		}
		p.seq = append(p.seq[:0], bytes.TrimSpace(seq)...)

		plus, err := p.next()
		if err != nil || len(plus) == 0 || plus[0] != '+' {
			return fmt.Errorf("%w: expected '+' separator (line %d)", ErrMalformed, p.n)
		}
		qual, err := p.next()
		if err != nil {
			return fmt.Errorf("%w: missing quality line (line %d)", ErrMalformed, p.n)
		}
		if len(bytes.TrimSpace(qual)) != len(p.seq) {
			return fmt.Errorf("%w: quality length %d, sequence length %d (line %d)", ErrMalformed, len(bytes.TrimSpace(qual)), len(p.seq), p.n)
		}

		if !yield(p.seq) {
			return nil
		}
	}
}

func trimEOL(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte{'\n'})
	return bytes.TrimSuffix(b, []byte{'\r'})
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
