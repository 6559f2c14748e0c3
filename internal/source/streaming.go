package source

// streaming.go holds the reader wrappers shared by the file adapters.
//
//   - BOMSkippingReader drops the UTF-8 BOM that spreadsheet exports of
//     account lists often start with.
//   - UTF8Sanitizer replaces invalid UTF-8 with '?' ahead of the XML, JSON
//     and YAML decoders, which reject such input outright.
//   - CountingReader counts bytes for the "csv parsed" debug entry.
//
// wrapText stacks all three for the structured formats. The CSV adapter
// uses wrapRaw and repairs cells itself, leaving the password column alone.

import (
	"io"
	"unicode/utf8"
)

// UTF8Sanitizer replaces each invalid UTF-8 byte of an account file with '?'
// as it streams, holding back an incomplete trailing sequence until the next
// Read so a rune split across reads is not mangled.
type UTF8Sanitizer struct {
	reader  io.Reader
	pending []byte
}

func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{
		reader:  r,
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.reader.Read(p[offset:])
	n += offset

	if n == 0 {
		return 0, err
	}

	if isAllASCII(p[:n]) {
		return n, err
	}

	return s.sanitize(p[:n], err == io.EOF), err
}

func isAllASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// sanitize rewrites data in place and returns the number of bytes to emit.
// When atEOF is false an incomplete trailing sequence is kept in pending.
func (s *UTF8Sanitizer) sanitize(data []byte, atEOF bool) int {
	if utf8.Valid(data) {
		if !atEOF {
			if trailing := incompleteTrailingBytes(data); trailing > 0 {
				s.pending = append(s.pending, data[len(data)-trailing:]...)
				return len(data) - trailing
			}
		}
		return len(data)
	}

	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])

		if !atEOF && read+size >= len(data) && isIncompleteRune(data[read:]) {
			s.pending = append(s.pending, data[read:]...)
			return write
		}

		if r == utf8.RuneError && size == 1 {
			// '?' keeps the output no longer than the input
			data[write] = '?'
			write++
			read++
		} else {
			copy(data[write:], data[read:read+size])
			write += size
			read += size
		}
	}

	return write
}

func incompleteTrailingBytes(data []byte) int {
	for i := 1; i <= 3 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b >= 0xC0 {
			if i < runeLen(b) {
				return i
			}
			return 0
		}
		if b&0xC0 != 0x80 {
			return 0
		}
	}
	return 0
}

func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}

func isIncompleteRune(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return runeLen(data[0]) > len(data)
}

// BOMSkippingReader skips a leading UTF-8 BOM, if present.
type BOMSkippingReader struct {
	reader     io.Reader
	bomChecked bool
	buf        [3]byte
	bufData    []byte
}

func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: r}
}

// Read implements io.Reader. The first call consumes up to three bytes to
// look for the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.bomChecked {
		r.bomChecked = true

		n, err := io.ReadFull(r.reader, r.buf[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}

		if n == 3 && r.buf[0] == 0xEF && r.buf[1] == 0xBB && r.buf[2] == 0xBF {
			r.bufData = nil
		} else {
			r.bufData = r.buf[:n]
		}

		if len(r.bufData) == 0 && err == io.EOF {
			return 0, io.EOF
		}
	}

	if len(r.bufData) > 0 {
		copied := copy(p, r.bufData)
		r.bufData = r.bufData[copied:]
		return copied, nil
	}

	return r.reader.Read(p)
}

// CountingReader tracks how many bytes an adapter consumed.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// wrapText strips a BOM, then sanitizes UTF-8, then counts the bytes
// delivered to the parser.
func wrapText(r io.Reader) *CountingReader {
	return &CountingReader{reader: NewUTF8Sanitizer(NewBOMSkippingReader(r))}
}

// wrapRaw strips a BOM and counts bytes without touching the content.
func wrapRaw(r io.Reader) *CountingReader {
	return &CountingReader{reader: NewBOMSkippingReader(r)}
}

// sanitizeString applies the UTF8Sanitizer replacement to a single cell.
func sanitizeString(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	data := []byte(s)
	n := (&UTF8Sanitizer{}).sanitize(data, true)
	return string(data[:n])
}
