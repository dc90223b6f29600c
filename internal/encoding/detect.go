// Package encoding normalizes settings backups exported by older clients,
// which may be saved as UTF-16 or a Latin code page, to UTF-8.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// MaxBackupSize bounds how much of a backup is read.
const MaxBackupSize = 16 << 20

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detect names the encoding of b, or returns nil when b is already UTF-8
// without a byte order mark.
func Detect(b []byte) xencoding.Encoding {
	switch {
	case bytes.HasPrefix(b, bomUTF8):
		return unicode.UTF8BOM
	case bytes.HasPrefix(b, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case bytes.HasPrefix(b, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case utf8.Valid(b):
		return nil
	}

	result, err := chardet.NewTextDetector().DetectBest(b)
	if err == nil {
		switch result.Charset {
		case "UTF-16LE":
			return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
		case "UTF-16BE":
			return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
		case "ISO-8859-9":
			return charmap.ISO8859_9
		case "ISO-8859-15":
			return charmap.ISO8859_15
		}
	}

	return charmap.Windows1252
}

// ReadUTF8 reads a whole backup and returns it as UTF-8.
func ReadUTF8(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxBackupSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	if len(raw) > MaxBackupSize {
		return nil, fmt.Errorf("backup exceeds %d bytes", MaxBackupSize)
	}

	enc := Detect(raw)
	if enc == nil {
		return raw, nil
	}

	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding backup: %w", err)
	}

	return out, nil
}
