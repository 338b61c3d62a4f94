// Package codepage implements the codepage-aware string decoding rules of
// spec.md §4.10: routing a MAPI string value's bytes to UTF-16LE, UTF-8,
// UTF-7, or an arbitrary single/multi-byte codepage, including the
// intentional, behavior-defining heuristic that decides whether a codepage
// 1200 ("Unicode") ASCII-typed value is actually UTF-16LE.
package codepage

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Well-known codepage numbers used by the routing rules in spec.md §4.10.
const (
	Unicode = 1200  // "Unicode": UTF-8 or UTF-16LE, disambiguated by heuristic
	UTF7    = 65000 // UTF-7 stream
	UTF8    = 65001 // UTF-8 stream
)

// byteEncodings maps a codepage number to a golang.org/x/text byte-stream
// encoding for the "other codepage" fallback case. Only codepages actually
// exercised by the pack's PST/MSG samples are pre-registered; ByteEncoding
// falls back to Windows-1252 for anything else, matching libpff's own
// "libuna uses the same numeric values as PFF" caveat
// (original_source/libpff_record_entry.c).
var byteEncodings = map[int]encoding.Encoding{
	1252: charmap.Windows1252,
	1250: charmap.Windows1250,
	1251: charmap.Windows1251,
	1253: charmap.Windows1253,
	1254: charmap.Windows1254,
	1255: charmap.Windows1255,
	1256: charmap.Windows1256,
	1257: charmap.Windows1257,
	1258: charmap.Windows1258,
	28591: charmap.ISO8859_1,
	28592: charmap.ISO8859_2,
	437:  charmap.CodePage437,
	850:  charmap.CodePage850,
	852:  charmap.CodePage852,
	866:  charmap.CodePage866,
}

// ByteEncoding returns the golang.org/x/text encoding for a non-Unicode,
// non-UTF-7/8 codepage, defaulting to Windows-1252 when the codepage isn't
// one of the table entries above.
func ByteEncoding(codepage int) encoding.Encoding {
	if enc, ok := byteEncodings[codepage]; ok {
		return enc
	}
	return charmap.Windows1252
}

// ContainsZeroThenNonZero reports whether data has any zero byte followed,
// anywhere later in the buffer (not necessarily immediately), by a
// non-zero byte. This is libpff's UTF-16LE-vs-UTF-8 heuristic for codepage
// 1200 ASCII-typed values (spec.md §4.10, §9 Design Notes); preserved
// byte-for-byte from libpff_mapi_value_data_contains_zero_bytes.
func ContainsZeroThenNonZero(data []byte) bool {
	zeroSeen := false
	for _, b := range data {
		if !zeroSeen {
			if b == 0 {
				zeroSeen = true
			}
			continue
		}
		if b != 0 {
			return true
		}
	}
	return false
}

// DecodeASCIIValue decodes a STRING_ASCII value to UTF-8, applying the
// codepage-1200 heuristic and the UTF-7/UTF-8/byte-stream routing of
// spec.md §4.10.
func DecodeASCIIValue(data []byte, asciiCodepage int) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if asciiCodepage == Unicode && ContainsZeroThenNonZero(data) {
		return DecodeUTF16LE(data)
	}
	switch asciiCodepage {
	case UTF7:
		return DecodeUTF7(data)
	case Unicode, UTF8:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("codepage: invalid UTF-8 stream")
		}
		return string(data), nil
	default:
		decoded, err := ByteEncoding(asciiCodepage).NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("codepage: decode codepage %d: %w", asciiCodepage, err)
		}
		return string(decoded), nil
	}
}

// DecodeUnicodeValue decodes a STRING_UNICODE value (always UTF-16LE
// regardless of codepage) to UTF-8.
func DecodeUnicodeValue(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	return DecodeUTF16LE(data)
}
